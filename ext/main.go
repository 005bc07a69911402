package ext

import (
	"github.com/govdbot/govfuni/ext/funimation"
	"github.com/govdbot/govfuni/models"
)

var List = []*models.Extractor{
	funimation.Extractor,
}
