package fetch

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/danass/leha/feature/registry"
)

// archiveMembers maps each entity type to the distinguishing part of its CSV
// file name inside the export archive.
var archiveMembers = map[string]string{
	registry.EntityFiches:         "Standard",
	registry.EntityCertificateurs: "Certificateurs",
	registry.EntityPartenaires:    "Partenaires",
	registry.EntityBlocs:          "Blocs",
}

// Download saves the resource into destDir and returns the archive path.
// The file is written to a temp name first and renamed once complete, so a
// failed download never leaves a truncated archive behind.
func (c *Client) Download(ctx context.Context, res Resource, destDir string) (string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("creating download dir: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, res.URL, nil)
	if err != nil {
		return "", fmt.Errorf("building download request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("downloading %s: %w", res.Title, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("downloading %s: unexpected status %d", res.Title, resp.StatusCode)
	}

	tmp, err := os.CreateTemp(destDir, "rncp_*.zip")
	if err != nil {
		return "", fmt.Errorf("creating temp archive: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("writing archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("closing archive: %w", err)
	}

	finalPath := filepath.Join(destDir, archiveName(res.Title))
	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("renaming archive: %w", err)
	}
	return finalPath, nil
}

func archiveName(title string) string {
	name := strings.TrimSuffix(title, ".zip")
	return name + ".zip"
}

// ExtractRows reads the export archive and returns the raw rows of every
// recognized CSV member, keyed by entity type. Members the registry does not
// know about are ignored.
func ExtractRows(archivePath string) (map[string][]map[string]string, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("opening archive %s: %w", archivePath, err)
	}
	defer zr.Close()

	rows := make(map[string][]map[string]string, len(archiveMembers))
	for _, member := range zr.File {
		entity, ok := memberEntity(member.Name)
		if !ok {
			continue
		}

		f, err := member.Open()
		if err != nil {
			return nil, fmt.Errorf("opening member %s: %w", member.Name, err)
		}
		parsed, err := parseCSV(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("parsing member %s: %w", member.Name, err)
		}
		rows[entity] = parsed
	}
	return rows, nil
}

func memberEntity(name string) (string, bool) {
	base := filepath.Base(name)
	for entity, marker := range archiveMembers {
		if strings.Contains(base, marker) {
			return entity, true
		}
	}
	return "", false
}

// parseCSV reads one semicolon-delimited export member. Headers are
// lowercased to match the store column names, and short rows are padded so a
// missing trailing cell reads as empty rather than failing the file.
func parseCSV(r io.Reader) ([]map[string]string, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	for i, col := range header {
		col = strings.TrimPrefix(col, "\uFEFF")
		header[i] = strings.ToLower(strings.TrimSpace(col))
	}

	var rows []map[string]string
	for {
		cells, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(cells) {
				row[col] = cells[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
