package services

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ContactInfo holds the fields extracted from resume text. Missing fields
// stay empty; the candidate confirms or fills them in later.
type ContactInfo struct {
	Name  string
	Email string
	Phone string
}

type ResumeParser interface {
	ExtractText(filename string, data []byte) (string, error)
	ExtractContactInfo(text string) ContactInfo
}

type resumeParser struct{}

func NewResumeParser() ResumeParser {
	return &resumeParser{}
}

var (
	tagRe     = regexp.MustCompile(`<[^>]+>`)
	spaceRe   = regexp.MustCompile(`[ \t\r\f\v]+`)
	newlineRe = regexp.MustCompile(`\n+`)
)

var (
	nameRe  = regexp.MustCompile(`^([A-Z][a-z]+(?:[ \t]+[A-Z][a-z]+)*)`)
	emailRe = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phoneRe = regexp.MustCompile(`(\+?\d{1,3}[-.\s]?)?(\(?\d{3}\)?[-.\s]?)\d{3}[-.\s]?\d{4}`)
)

// ExtractText implements ResumeParser. Supports .pdf and .docx.
func (p *resumeParser) ExtractText(filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return extractTextFromPDF(data)
	case ".docx":
		return extractTextFromDocx(data)
	default:
		return "", fmt.Errorf("unsupported file format %q: only pdf and docx are allowed", ext)
	}
}

// ExtractContactInfo implements ResumeParser.
func (p *resumeParser) ExtractContactInfo(text string) ContactInfo {
	info := ContactInfo{}
	if m := nameRe.FindStringSubmatch(strings.TrimSpace(text)); m != nil {
		info.Name = m[1]
	}
	if m := emailRe.FindString(text); m != "" {
		info.Email = m
	}
	if m := phoneRe.FindString(text); m != "" {
		info.Phone = strings.TrimSpace(m)
	}
	return info
}

func extractTextFromPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	rs, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract PDF text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rs); err != nil {
		return "", fmt.Errorf("failed to read PDF text: %w", err)
	}

	text := normalizeWhitespace(buf.String())
	if text == "" {
		return "", fmt.Errorf("no text content found in PDF")
	}
	return text, nil
}

func extractTextFromDocx(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open docx: %w", err)
	}

	var docXML []byte
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			rc, err := f.Open()
			if err != nil {
				return "", fmt.Errorf("failed to open document.xml: %w", err)
			}
			docXML, err = io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return "", fmt.Errorf("failed to read document.xml: %w", err)
			}
			break
		}
	}
	if len(docXML) == 0 {
		return "", fmt.Errorf("no document.xml found in docx")
	}

	// Paragraph boundaries become newlines, then all tags are stripped.
	xml := string(docXML)
	xml = strings.ReplaceAll(xml, "</w:p>", "\n")
	xml = strings.ReplaceAll(xml, "<w:tab/>", "\t")
	xml = tagRe.ReplaceAllString(xml, " ")

	text := normalizeWhitespace(xml)
	if text == "" {
		return "", fmt.Errorf("no text content found in docx")
	}
	return text, nil
}

func normalizeWhitespace(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = spaceRe.ReplaceAllString(s, " ")
	s = newlineRe.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}
