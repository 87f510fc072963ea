package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"datacatalog/adapters/excel"
	"datacatalog/domain/catalog"
	"datacatalog/domain/datareadiness/profiling"
	apperrors "datacatalog/internal/errors"
	"datacatalog/internal/metadata"
	profstats "datacatalog/internal/profiling"
	"datacatalog/internal/report"
	"datacatalog/internal/sensitivity"
)

// upload is one staged multipart file
type upload struct {
	path     string // staged location on disk
	filename string // name the client sent
	size     int64
}

type analyzeResponse struct {
	Analysis          *profiling.FileAnalysis        `json:"analysis"`
	SuggestedMetadata catalog.SuggestedAssetMetadata `json:"suggested_metadata"`
	OriginalFilename  string                         `json:"original_filename"`
}

type validateResponse struct {
	Filename      string   `json:"filename"`
	FileExtension string   `json:"file_extension"`
	IsValid       bool     `json:"is_valid"`
	Issues        []string `json:"issues"`
	FileSize      int64    `json:"file_size"`
	FileSizeMB    float64  `json:"file_size_mb"`
}

type importResponse struct {
	Message  string               `json:"message"`
	Asset    *catalog.AssetRecord `json:"asset"`
	FilePath string               `json:"file_path"`
}

type classifyRequest struct {
	ColumnName   string              `json:"column_name"`
	SampleValues []interface{}       `json:"sample_values"`
	SchemaInfo   *catalog.SchemaInfo `json:"schema_info"`
}

type columnClassification struct {
	ColumnName       string                     `json:"column_name"`
	Classification   profiling.SensitivityFlags `json:"classification"`
	ContainsPII      bool                       `json:"contains_pii"`
	SensitivityLevel catalog.SensitivityLevel   `json:"sensitivity_level"`
}

// stageUpload saves the multipart "file" part. It writes the error response
// itself and returns false when there is nothing to analyze.
func (s *Server) stageUpload(w http.ResponseWriter, r *http.Request) (*upload, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.options.MaxFileSize+(1<<20))
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			_ = errorResponse(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("File too large (max: %.1fMB)", float64(s.options.MaxFileSize)/1024/1024))
			return nil, false
		}
		_ = errorResponse(w, http.StatusBadRequest, "No file provided")
		return nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		_ = errorResponse(w, http.StatusBadRequest, "No file provided")
		return nil, false
	}
	defer file.Close()
	if strings.TrimSpace(header.Filename) == "" {
		_ = errorResponse(w, http.StatusBadRequest, "No file selected")
		return nil, false
	}

	path, err := s.storage.Store(r.Context(), file, header.Filename)
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	s.log.Debug().Str("filename", header.Filename).Str("path", path).Int64("size", header.Size).Msg("upload staged")
	return &upload{path: path, filename: header.Filename, size: header.Size}, true
}

// discard removes a staged upload unless the server is configured to keep it
func (s *Server) discard(u *upload) {
	if s.options.KeepStagedFile {
		return
	}
	if err := s.storage.Delete(context.Background(), u.path); err != nil {
		s.log.Warn().Err(err).Str("path", u.path).Msg("failed to remove staged upload")
	}
}

// analyzeUpload validates and profiles a staged file, writing the rejection on failure
func (s *Server) analyzeUpload(w http.ResponseWriter, r *http.Request, u *upload) (*profiling.FileAnalysis, catalog.SuggestedAssetMetadata, bool) {
	if valid, issues := s.analyzer.ValidateForImport(u.path); !valid {
		_ = validationFailed(w, issues)
		return nil, catalog.SuggestedAssetMetadata{}, false
	}
	analysis, err := s.analyzer.Analyze(r.Context(), u.path)
	if err != nil {
		s.writeError(w, r, err)
		return nil, catalog.SuggestedAssetMetadata{}, false
	}
	name := metadata.AssetName(u.filename, r.FormValue("name"))
	return analysis, s.analyzer.GenerateAssetMetadata(analysis, name), true
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if !s.acquire(r.Context()) {
		_ = errorResponse(w, http.StatusServiceUnavailable, "Server busy, try again later")
		return
	}
	defer s.release()

	u, ok := s.stageUpload(w, r)
	if !ok {
		return
	}
	defer s.discard(u)

	analysis, suggested, ok := s.analyzeUpload(w, r, u)
	if !ok {
		return
	}
	_ = writeJSON(w, http.StatusOK, analyzeResponse{
		Analysis:          analysis,
		SuggestedMetadata: suggested,
		OriginalFilename:  u.filename,
	})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	u, ok := s.stageUpload(w, r)
	if !ok {
		return
	}
	defer s.discard(u)

	valid, issues := s.analyzer.ValidateForImport(u.path)
	if issues == nil {
		issues = []string{}
	}
	_ = writeJSON(w, http.StatusOK, validateResponse{
		Filename:      u.filename,
		FileExtension: excel.Extension(u.filename),
		IsValid:       valid,
		Issues:        issues,
		FileSize:      u.size,
		FileSizeMB:    profstats.Round(float64(u.size)/1024/1024, 2),
	})
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if !s.acquire(r.Context()) {
		_ = errorResponse(w, http.StatusServiceUnavailable, "Server busy, try again later")
		return
	}
	defer s.release()

	u, ok := s.stageUpload(w, r)
	if !ok {
		return
	}

	overrides, err := importOverrides(r, u.filename)
	if err != nil {
		s.forceDiscard(u)
		s.writeError(w, r, err)
		return
	}

	asset, err := s.analyzer.ImportFile(r.Context(), u.path, overrides)
	if err != nil {
		s.forceDiscard(u)
		s.writeError(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusCreated, importResponse{
		Message:  "File imported successfully as data asset",
		Asset:    asset,
		FilePath: u.path,
	})
}

// forceDiscard removes an upload that did not become an asset
func (s *Server) forceDiscard(u *upload) {
	if err := s.storage.Delete(context.Background(), u.path); err != nil {
		s.log.Warn().Err(err).Str("path", u.path).Msg("failed to remove staged upload")
	}
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format != "" && format != "markdown" && format != "html" {
		_ = errorResponse(w, http.StatusBadRequest, fmt.Sprintf("Unsupported report format: %s", format))
		return
	}

	if !s.acquire(r.Context()) {
		_ = errorResponse(w, http.StatusServiceUnavailable, "Server busy, try again later")
		return
	}
	defer s.release()

	u, ok := s.stageUpload(w, r)
	if !ok {
		return
	}
	defer s.discard(u)

	analysis, suggested, ok := s.analyzeUpload(w, r, u)
	if !ok {
		return
	}
	md := report.Markdown(analysis, suggested)
	if format == "html" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(report.HTML(md))
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, _ = w.Write([]byte(md))
}

func (s *Server) handleFormats(w http.ResponseWriter, r *http.Request) {
	_ = writeJSON(w, http.StatusOK, map[string]interface{}{
		"supported_formats": excel.SupportedExtensions,
		"max_file_size_mb":  float64(s.options.MaxFileSize) / 1024 / 1024,
		"upload_folder":     s.options.UploadDir,
	})
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = errorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if req.SchemaInfo != nil {
		fields := s.analyzer.ClassifySchema(*req.SchemaInfo)
		if fields == nil {
			fields = []catalog.DataField{}
		}
		_ = writeJSON(w, http.StatusOK, map[string]interface{}{"fields": fields})
		return
	}

	if strings.TrimSpace(req.ColumnName) == "" {
		_ = errorResponse(w, http.StatusBadRequest, "column_name or schema_info is required")
		return
	}
	flags := s.analyzer.ClassifySensitivity(req.ColumnName, sampleStrings(req.SampleValues))
	_ = writeJSON(w, http.StatusOK, columnClassification{
		ColumnName:       req.ColumnName,
		Classification:   flags,
		ContainsPII:      flags.Any(),
		SensitivityLevel: sensitivity.Level(flags),
	})
}

func (s *Server) handleGetAsset(w http.ResponseWriter, r *http.Request) {
	asset, err := s.analyzer.GetAsset(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, asset)
}

// importOverrides reads the caller's catalog overrides from the form
func importOverrides(r *http.Request, filename string) (catalog.ImportOverrides, error) {
	overrides := catalog.ImportOverrides{
		AssetName:   metadata.AssetName(filename, r.FormValue("name")),
		Description: strings.TrimSpace(r.FormValue("description")),
	}

	if raw := r.FormValue("tags"); raw != "" {
		tags := []string{}
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
		overrides.Tags = tags
	}

	if raw := r.FormValue("access_level"); raw != "" {
		level, ok := catalog.ParseAccessLevel(raw)
		if !ok {
			return overrides, apperrors.InvalidInput(fmt.Sprintf("invalid access_level: %s", raw))
		}
		overrides.AccessLevel = &level
	}

	if raw := r.FormValue("is_public"); raw != "" {
		public, err := strconv.ParseBool(raw)
		if err != nil {
			return overrides, apperrors.InvalidInput(fmt.Sprintf("invalid is_public: %s", raw))
		}
		overrides.IsPublic = public
	}
	return overrides, nil
}

// sampleStrings stringifies JSON sample values the way profiled cells are stringified
func sampleStrings(values []interface{}) []string {
	sample := make([]string, 0, len(values))
	for _, v := range values {
		switch val := v.(type) {
		case nil:
			continue
		case string:
			sample = append(sample, val)
		case float64:
			sample = append(sample, strconv.FormatFloat(val, 'f', -1, 64))
		case bool:
			if val {
				sample = append(sample, "True")
			} else {
				sample = append(sample, "False")
			}
		default:
			sample = append(sample, fmt.Sprint(val))
		}
	}
	return sample
}
