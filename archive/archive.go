// Package archive persists program guides as dated, rotated ZIP
// archives under the output directory tree.
package archive

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"procentric-epg/consts"
	"procentric-epg/guide"
)

// BaseOutputDir is where guide archives land. Variable so tests can
// point it at a scratch directory.
var BaseOutputDir = "output"

// SaveAndZip writes the guide as Procentric_EPG.json under
// BaseOutputDir/<subdirs...>, packs it into <base>_<YYYYMMDD>.zip,
// removes older archives sharing the same base and drops the
// intermediate JSON. Downstream consumers key off this naming scheme.
func SaveAndZip(g *guide.ProgramGuide, subdirs []string, base string) (string, error) {
	dir := filepath.Join(append([]string{BaseOutputDir}, subdirs...)...)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(g, "", "    ")
	if err != nil {
		return "", err
	}
	jsonPath := filepath.Join(dir, consts.GUIDE_FILENAME)
	if err := os.WriteFile(jsonPath, data, 0644); err != nil {
		return "", err
	}
	log.Info("JSON saved", "path", jsonPath)

	zipName := fmt.Sprintf("%s_%s.zip", base, time.Now().Format("20060102"))
	zipPath := filepath.Join(dir, zipName)
	rotate(dir, base, zipPath)

	if err := writeZip(zipPath, consts.GUIDE_FILENAME, data); err != nil {
		return "", err
	}
	if err := os.Remove(jsonPath); err != nil {
		return "", err
	}
	log.Info("ZIP created", "path", zipPath)
	return zipPath, nil
}

// rotate deletes every archive for base other than keep.
func rotate(dir, base, keep string) {
	matches, err := filepath.Glob(filepath.Join(dir, base+"_*.zip"))
	if err != nil {
		return
	}
	for _, m := range matches {
		if m == keep {
			continue
		}
		if err := os.Remove(m); err != nil {
			log.Error("cannot delete old archive", "path", m, "err", err)
			continue
		}
		log.Info("deleted old archive", "path", m)
	}
}

func writeZip(zipPath, name string, data []byte) error {
	f, err := os.Create(zipPath)
	if err != nil {
		return err
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create(name)
	if err != nil {
		zw.Close()
		return err
	}
	if _, err := w.Write(data); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}
