package source

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScanDir finds meal export files under path. A regular file is returned
// as-is; a directory is walked for *.jsonl and *.json files. A missing path
// yields no files and no error.
func ScanDir(path string) ([]DiscoveredFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if !info.IsDir() {
		return []DiscoveredFile{discovered(path)}, nil
	}

	var files []DiscoveredFile

	err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // skip unreadable entries
		}
		if d.IsDir() {
			if p != path && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		switch strings.ToLower(filepath.Ext(p)) {
		case ".jsonl", ".json":
			files = append(files, discovered(p))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

func discovered(p string) DiscoveredFile {
	base := filepath.Base(p)
	return DiscoveredFile{
		Path: p,
		Name: strings.TrimSuffix(base, filepath.Ext(base)),
	}
}
