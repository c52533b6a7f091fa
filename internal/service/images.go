package service

import (
	"regexp"
	"strings"
)

var uploadsPrefix = regexp.MustCompile(`^/?uploads/`)

// CleanImagePath убирает ведущий сегмент uploads/ из пути к изображению.
func CleanImagePath(path string) string {
	return uploadsPrefix.ReplaceAllString(strings.TrimSpace(path), "")
}

// ImageURL строит публичный адрес изображения. data: URI и абсолютные адреса
// возвращаются без изменений, пустой путь даёт nil.
func (s *Service) ImageURL(path string) *string {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	if isExternalImage(path) {
		return &path
	}

	clean := CleanImagePath(path)
	if clean == "" {
		return nil
	}

	base := strings.TrimRight(s.uploadsURL, "/")
	url := base + "/" + clean
	return &url
}

func isExternalImage(path string) bool {
	return strings.HasPrefix(path, "data:") ||
		strings.HasPrefix(path, "http://") ||
		strings.HasPrefix(path, "https://")
}
