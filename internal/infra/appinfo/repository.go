package appinfo

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"visionatrix-exapp/internal/domain/model"
	"visionatrix-exapp/internal/domain/repository"
)

// ImageTagElement is the element holding the published image version.
const ImageTagElement = "image-tag"

var (
	// ErrElementNotFound is returned when the requested element is absent.
	ErrElementNotFound = errors.New("element not found")
	// ErrElementEmpty is returned when the element exists without text.
	ErrElementEmpty = errors.New("element is empty")
)

type xmlRepository struct {
	path string
}

var _ repository.AppInfoRepository = (*xmlRepository)(nil)

// NewRepository reads the descriptor at path on every call.
func NewRepository(path string) repository.AppInfoRepository {
	return &xmlRepository{path: path}
}

func (r *xmlRepository) ImageTag() (string, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", r.path, err)
	}
	defer f.Close()

	v, err := FirstElementText(f, ImageTagElement)
	if err != nil {
		return "", fmt.Errorf("%s: %w", r.path, err)
	}
	return v, nil
}

func (r *xmlRepository) AppInfo() (*model.AppInfo, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", r.path, err)
	}
	defer f.Close()

	info, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.path, err)
	}
	return info, nil
}

// FirstElementText returns the trimmed character data of the first element
// named name anywhere in the document, like the XPath //name. The whole
// document is consumed so that malformed XML after the match is still an error.
func FirstElementText(r io.Reader, name string) (string, error) {
	dec := xml.NewDecoder(r)

	var (
		found    bool
		seenRoot bool
		value    string
		depth    int // > 0 while inside the matched element
		buffer   strings.Builder
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("malformed XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			seenRoot = true
			if depth > 0 {
				depth++
			} else if !found && t.Name.Local == name {
				depth = 1
			}
		case xml.EndElement:
			if depth > 0 {
				depth--
				if depth == 0 {
					found = true
					value = strings.TrimSpace(buffer.String())
				}
			}
		case xml.CharData:
			if depth > 0 {
				buffer.Write(t)
			}
		}
	}

	if !seenRoot {
		return "", errors.New("malformed XML: no root element")
	}
	if !found {
		return "", fmt.Errorf("%w: %s", ErrElementNotFound, name)
	}
	if value == "" {
		return "", fmt.Errorf("%w: %s", ErrElementEmpty, name)
	}
	return value, nil
}

type infoXML struct {
	XMLName     xml.Name `xml:"info"`
	ID          string   `xml:"id"`
	Name        []string `xml:"name"`
	Version     string   `xml:"version"`
	ExternalApp struct {
		DockerInstall struct {
			Registry string `xml:"registry"`
			Image    string `xml:"image"`
			ImageTag string `xml:"image-tag"`
		} `xml:"docker-install"`
		Scopes []string `xml:"scopes>value"`
		System string   `xml:"system"`
	} `xml:"external-app"`
}

// Decode parses an info.xml document.
func Decode(r io.Reader) (*model.AppInfo, error) {
	var doc infoXML
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("malformed XML: %w", err)
	}

	info := &model.AppInfo{
		ID:       strings.TrimSpace(doc.ID),
		Version:  strings.TrimSpace(doc.Version),
		ImageTag: strings.TrimSpace(doc.ExternalApp.DockerInstall.ImageTag),
		Registry: strings.TrimSpace(doc.ExternalApp.DockerInstall.Registry),
		Image:    strings.TrimSpace(doc.ExternalApp.DockerInstall.Image),
		System:   isTruthy(doc.ExternalApp.System),
	}
	// info.xml may carry one <name> per language; the first is the default.
	if len(doc.Name) > 0 {
		info.Name = strings.TrimSpace(doc.Name[0])
	}
	for _, s := range doc.ExternalApp.Scopes {
		if s = strings.TrimSpace(s); s != "" {
			info.Scopes = append(info.Scopes, s)
		}
	}
	return info, nil
}

func isTruthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes":
		return true
	}
	return false
}
