package importer

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// statementFile is one raw file of a batch.
type statementFile struct {
	name string
	data []byte
}

var zipMagic = []byte("PK\x03\x04")

// cloudFolderHosts are the recognized cloud-storage providers. Their folder
// links cannot be listed anonymously, so a folder URL from one of them
// fails with remediation options instead of a generic fetch error.
var cloudFolderHosts = map[string][]string{
	"drive.google.com":  {"/drive/folders/", "/folderview"},
	"dropbox.com":       {"/sh/", "/scl/fo/"},
	"www.dropbox.com":   {"/sh/", "/scl/fo/"},
	"onedrive.live.com": {"/"},
	"1drv.ms":           {"/f/"},
}

// collectFiles resolves the request into raw statement files. The bool
// result reports container mode (ZIP, directory, or cloud folder), which
// switches the batch to per-file error scoping.
func (s *Service) collectFiles(req PreviewRequest) ([]statementFile, bool, error) {
	if len(req.Content) > 0 {
		if isZip(req.FileName, req.Content) {
			files, err := zipMembers(req.Content)
			return files, true, err
		}
		name := req.FileName
		if name == "" {
			name = "upload.xml"
		}
		return []statementFile{{name: name, data: req.Content}}, false, nil
	}

	if strings.HasPrefix(req.Source, "http://") || strings.HasPrefix(req.Source, "https://") {
		return s.collectFromURL(req.Source)
	}
	return collectFromPath(req.Source)
}

func collectFromPath(path string) ([]statementFile, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, false, fmt.Errorf("read source %s: %w", path, err)
	}

	if info.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, true, fmt.Errorf("list directory %s: %w", path, err)
		}
		var files []statementFile
		for _, e := range entries {
			if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".xml") {
				continue
			}
			data, err := os.ReadFile(filepath.Join(path, e.Name()))
			if err != nil {
				return nil, true, fmt.Errorf("read %s: %w", e.Name(), err)
			}
			files = append(files, statementFile{name: e.Name(), data: data})
		}
		sort.Slice(files, func(i, j int) bool { return files[i].name < files[j].name })
		return files, true, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("read source %s: %w", path, err)
	}
	if isZip(path, data) {
		files, err := zipMembers(data)
		return files, true, err
	}
	return []statementFile{{name: filepath.Base(path), data: data}}, false, nil
}

func (s *Service) collectFromURL(rawURL string) ([]statementFile, bool, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, false, fmt.Errorf("invalid source URL: %w", err)
	}

	if prefixes, ok := cloudFolderHosts[strings.ToLower(u.Host)]; ok {
		for _, p := range prefixes {
			if strings.HasPrefix(u.Path, p) {
				return nil, true, fmt.Errorf(
					"cannot list statement files from a %s folder link; use a local folder path, a direct file link, or upload a ZIP archive instead",
					u.Host,
				)
			}
		}
	}

	client := &http.Client{Timeout: s.fetchTimeout}
	resp, err := client.Get(rawURL)
	if err != nil {
		return nil, false, fmt.Errorf(
			"fetch %s failed (%v); use a local folder path, a direct file link, or upload a ZIP archive instead",
			rawURL, err,
		)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("fetch %s: unexpected status %s", rawURL, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("fetch %s: read body: %w", rawURL, err)
	}

	name := filepath.Base(u.Path)
	if isZip(name, data) {
		files, err := zipMembers(data)
		return files, true, err
	}
	if name == "" || name == "/" || name == "." {
		name = "download.xml"
	}
	return []statementFile{{name: name, data: data}}, false, nil
}

func isZip(name string, data []byte) bool {
	return strings.EqualFold(filepath.Ext(name), ".zip") || bytes.HasPrefix(data, zipMagic)
}

// zipMembers extracts the archive's XML members in sorted name order,
// ignoring directories, platform metadata, and anything that is not .xml.
func zipMembers(data []byte) ([]statementFile, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip archive: %w", err)
	}

	var files []statementFile
	for _, member := range reader.File {
		if member.FileInfo().IsDir() {
			continue
		}
		name := member.Name
		base := filepath.Base(name)
		if strings.HasPrefix(name, "__MACOSX/") || strings.HasPrefix(base, ".") {
			continue
		}
		if !strings.EqualFold(filepath.Ext(base), ".xml") {
			continue
		}

		rc, err := member.Open()
		if err != nil {
			return nil, fmt.Errorf("open zip member %s: %w", name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read zip member %s: %w", name, err)
		}
		files = append(files, statementFile{name: name, data: content})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].name < files[j].name })
	return files, nil
}
