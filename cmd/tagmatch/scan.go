package main

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sydlexius/tagmatch/internal/pipeline"
)

var mediaExts = map[string]bool{
	".mp3":  true,
	".flac": true,
	".m4a":  true,
	".ogg":  true,
	".opus": true,
	".wav":  true,
}

// infoSidecar is the subset of a downloader's .info.json this tool uses.
type infoSidecar struct {
	Title       string `json:"title"`
	Uploader    string `json:"uploader"`
	Description string `json:"description"`
	UploadDate  string `json:"upload_date"` // YYYYMMDD
}

// scanItems walks dir recursively and builds one work item per media
// file. When a matching .info.json sidecar exists, its title, uploader,
// description and upload date feed the item; otherwise the filename stem
// stands in for the title.
func scanItems(dir string) ([]pipeline.Item, error) {
	var items []pipeline.Item

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !mediaExts[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		item := pipeline.Item{Handle: path}
		stem := strings.TrimSuffix(path, filepath.Ext(path))
		if info, ok := readInfoSidecar(stem + ".info.json"); ok {
			item.Title = info.Title
			item.Uploader = info.Uploader
			item.Description = info.Description
			item.UploadDate = formatUploadDate(info.UploadDate)
		}
		if item.Title == "" {
			item.Title = filepath.Base(stem)
		}

		items = append(items, item)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Handle < items[j].Handle })
	return items, nil
}

func readInfoSidecar(path string) (infoSidecar, bool) {
	var info infoSidecar
	data, err := os.ReadFile(path)
	if err != nil {
		return info, false
	}
	if err := json.Unmarshal(data, &info); err != nil {
		return info, false
	}
	return info, true
}

// formatUploadDate turns the compact YYYYMMDD form into YYYY-MM-DD.
func formatUploadDate(d string) string {
	if len(d) != 8 {
		return d
	}
	return d[0:4] + "-" + d[4:6] + "-" + d[6:8]
}
