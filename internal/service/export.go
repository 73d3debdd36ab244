package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"time"

	"sovereign/api/internal/apierr"
)

// ExportArchiver keeps an audit copy of generated exports in object
// storage. May be nil when no archive bucket is configured.
type ExportArchiver interface {
	Store(ctx context.Context, objectName string, contentType string, body []byte) error
}

type ExportType string

const (
	ExportTypeUsers        ExportType = "users"
	ExportTypeApplications ExportType = "applications"
)

type ExportFormat string

const (
	ExportFormatJSON ExportFormat = "json"
	ExportFormatCSV  ExportFormat = "csv"
)

type ExportResult struct {
	ContentType string
	// Rows is set for JSON exports, Body for CSV.
	Rows []map[string]any
	Body []byte
}

// Export projects a full table. The password hash never leaves the
// store regardless of format.
func (s *AdminService) Export(ctx context.Context, exportType ExportType, format ExportFormat) (ExportResult, error) {
	var (
		headers []string
		rows    []map[string]any
	)

	switch exportType {
	case ExportTypeUsers:
		users, err := s.users.ListAll(ctx)
		if err != nil {
			return ExportResult{}, apierr.Store("export users", err)
		}
		headers = []string{
			"id", "email", "first_name", "last_name", "platform_handle",
			"account_type", "role", "status", "last_login", "created_at", "updated_at",
		}
		rows = make([]map[string]any, 0, len(users))
		for _, u := range users {
			rows = append(rows, map[string]any{
				"id":              u.ID,
				"email":           u.Email,
				"first_name":      u.FirstName,
				"last_name":       u.LastName,
				"platform_handle": u.PlatformHandle,
				"account_type":    string(u.AccountType),
				"role":            string(u.Role),
				"status":          string(u.Status),
				"last_login":      u.LastLogin,
				"created_at":      u.CreatedAt,
				"updated_at":      u.UpdatedAt,
			})
		}
	case ExportTypeApplications:
		apps, err := s.applications.ListAll(ctx)
		if err != nil {
			return ExportResult{}, apierr.Store("export applications", err)
		}
		headers = []string{
			"id", "user_id", "requested_handle", "motivation", "experience",
			"status", "created_at", "reviewed_at",
		}
		rows = make([]map[string]any, 0, len(apps))
		for _, a := range apps {
			rows = append(rows, map[string]any{
				"id":               a.ID,
				"user_id":          a.UserID,
				"requested_handle": a.RequestedHandle,
				"motivation":       a.Motivation,
				"experience":       a.Experience,
				"status":           string(a.Status),
				"created_at":       a.CreatedAt,
				"reviewed_at":      a.ReviewedAt,
			})
		}
	default:
		return ExportResult{}, apierr.Validation("Invalid export type")
	}

	var result ExportResult
	switch format {
	case ExportFormatCSV:
		body, err := marshalCSV(headers, rows)
		if err != nil {
			return ExportResult{}, apierr.Store("encode csv", err)
		}
		result = ExportResult{ContentType: "text/csv", Body: body}
	case ExportFormatJSON, "":
		result = ExportResult{ContentType: "application/json", Rows: rows}
	default:
		return ExportResult{}, apierr.Validation("Invalid export format")
	}

	if s.archive != nil {
		body := result.Body
		ext := "csv"
		if body == nil {
			encoded, err := json.Marshal(result.Rows)
			if err != nil {
				return ExportResult{}, apierr.Store("encode export archive", err)
			}
			body = encoded
			ext = "json"
		}
		name := fmt.Sprintf("exports/%s-%s.%s", exportType, time.Now().UTC().Format("20060102T150405Z"), ext)
		contentType := result.ContentType
		s.tasks.Submit("export-archive", func(ctx context.Context) error {
			return s.archive.Store(ctx, name, contentType, body)
		})
	}

	return result, nil
}

func marshalCSV(headers []string, rows []map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(headers); err != nil {
		return nil, err
	}
	for _, row := range rows {
		record := make([]string, len(headers))
		for i, header := range headers {
			record[i] = csvField(row[header])
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func csvField(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case *string:
		if v == nil {
			return ""
		}
		return *v
	case time.Time:
		return v.Format(time.RFC3339)
	case *time.Time:
		if v == nil {
			return ""
		}
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", v)
	}
}
