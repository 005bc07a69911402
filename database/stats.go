package database

import "github.com/govdbot/govfuni/models"

func GetMediaCount() (int64, error) {
	var count int64
	err := DB.
		Model(&models.Media{}).
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func GetFormatsCount() (int64, error) {
	var count int64
	err := DB.
		Model(&models.MediaFormat{}).
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
