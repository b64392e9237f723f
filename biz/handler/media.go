package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"strconv"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/pressio/mediahub/biz/dal/db"
	"github.com/pressio/mediahub/biz/service"
	"github.com/pressio/mediahub/pkg/common"
)

// MediaHandler exposes the upload, catalog and markup endpoints.
type MediaHandler struct {
	service *service.Service
}

func NewMediaHandler(svc *service.Service) *MediaHandler {
	return &MediaHandler{service: svc}
}

// Upload handles a single multipart upload and persists the asset through
// the service layer.
func (h *MediaHandler) Upload(ctx context.Context, c *app.RequestContext) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		writeBadRequest(c, err)
		return
	}

	input, err := h.readUploadInput(ctx, c, fileHeader)
	if err != nil {
		writeInternalError(c, err)
		return
	}

	asset, err := h.service.Upload(EnrichContext(ctx, c), input, nil)
	if err != nil {
		writeUploadError(c, err)
		return
	}

	c.JSON(consts.StatusOK, common.CommonResponse{
		Code: consts.StatusOK,
		Data: map[string]any{"file": asset},
	})
}

// UploadBatch handles multiple files in one multipart request. Each file is
// processed in order; per-file failures are reported alongside successes.
func (h *MediaHandler) UploadBatch(ctx context.Context, c *app.RequestContext) {
	form, err := c.MultipartForm()
	if err != nil {
		writeBadRequest(c, err)
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		writeBadRequest(c, errors.New("no files supplied"))
		return
	}

	// A failure on one part never aborts its siblings; it becomes a failed
	// entry in the results, in position.
	rctx := EnrichContext(ctx, c)
	results := make([]service.UploadResult, 0, len(headers))
	for _, header := range headers {
		input, err := h.readUploadInput(ctx, c, header)
		if err != nil {
			results = append(results, service.UploadResult{
				FileName: header.Filename,
				Err:      err.Error(),
			})
			continue
		}
		results = append(results, h.service.UploadMany(rctx, []*service.UploadInput{input}, nil)...)
	}
	c.JSON(consts.StatusOK, common.CommonResponse{
		Code: consts.StatusOK,
		Data: map[string]any{"results": results},
	})
}

func (h *MediaHandler) readUploadInput(ctx context.Context, c *app.RequestContext, header *multipart.FileHeader) (*service.UploadInput, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	return &service.UploadInput{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
		FolderID:    string(c.FormValue("folder_id")),
		Alt:         string(c.FormValue("alt")),
		Caption:     string(c.FormValue("caption")),
		UploadedBy:  common.GetActor(EnrichContext(ctx, c)),
	}, nil
}

// List returns one catalog page of assets plus the folder tree.
func (h *MediaHandler) List(ctx context.Context, c *app.RequestContext) {
	query := db.AssetQuery{
		FolderID:  strings.TrimSpace(c.Query("folder_id")),
		Kind:      strings.TrimSpace(c.Query("type")),
		Search:    strings.TrimSpace(c.Query("search")),
		SortBy:    strings.TrimSpace(c.Query("sort_by")),
		SortOrder: strings.TrimSpace(c.Query("sort_order")),
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil {
		query.Page = page
	}
	if perPage, err := strconv.Atoi(c.Query("per_page")); err == nil {
		query.PerPage = perPage
	}

	page, err := h.service.List(EnrichContext(ctx, c), query)
	if err != nil {
		writeInternalError(c, err)
		return
	}
	c.JSON(consts.StatusOK, common.CommonResponse{
		Code: consts.StatusOK,
		Data: page,
	})
}

// ActiveUploads reports the in-flight upload tasks for progress polling.
func (h *MediaHandler) ActiveUploads(ctx context.Context, c *app.RequestContext) {
	c.JSON(consts.StatusOK, common.CommonResponse{
		Code: consts.StatusOK,
		Data: map[string]any{"uploads": h.service.ActiveUploads()},
	})
}

// GetFile streams stored asset content back to the client.
func (h *MediaHandler) GetFile(ctx context.Context, c *app.RequestContext) {
	fileID := c.Param("fileID")
	asset, reader, err := h.service.GetAssetFile(EnrichContext(ctx, c), fileID)
	if err != nil {
		if errors.Is(err, service.ErrAssetNotFound) || errors.Is(err, os.ErrNotExist) {
			writeNotFound(c, err)
			return
		}
		writeInternalError(c, err)
		return
	}
	defer reader.Close()

	content, err := io.ReadAll(reader)
	if err != nil {
		writeInternalError(c, err)
		return
	}

	contentType := asset.ContentType
	if contentType == "" {
		contentType = consts.MIMEApplicationOctetStream
	}
	c.Response.Header.Set("ETag", common.GetMD5Hash(asset.Path))
	if asset.FileName != "" {
		c.Response.Header.Set("Content-Disposition", fmt.Sprintf("inline; filename=\"%s\"", asset.FileName))
	}
	c.Data(consts.StatusOK, contentType, content)
}

// DeleteAsset removes an asset and its stored payload. Deleting an unknown
// id still succeeds.
func (h *MediaHandler) DeleteAsset(ctx context.Context, c *app.RequestContext) {
	fileID := c.Param("fileID")
	if err := h.service.Remove(EnrichContext(ctx, c), fileID); err != nil {
		writeInternalError(c, err)
		return
	}
	c.JSON(consts.StatusOK, common.CommonResponse{Code: consts.StatusOK})
}

// PatchAssetRequest carries optional metadata edits; absent fields are left
// untouched.
type PatchAssetRequest struct {
	Alt      *string `json:"alt"`
	Caption  *string `json:"caption"`
	FolderID *string `json:"folder_id"`
}

// PatchAsset edits alt/caption texts and moves the asset between folders.
func (h *MediaHandler) PatchAsset(ctx context.Context, c *app.RequestContext) {
	fileID := c.Param("fileID")

	var req PatchAssetRequest
	if err := c.BindAndValidate(&req); err != nil {
		writeBadRequest(c, err)
		return
	}

	rctx := EnrichContext(ctx, c)

	if req.FolderID != nil {
		if err := h.service.MoveAsset(rctx, fileID, *req.FolderID); err != nil {
			writeCatalogError(c, err)
			return
		}
	}

	if req.Alt == nil && req.Caption == nil {
		c.JSON(consts.StatusOK, common.CommonResponse{Code: consts.StatusOK})
		return
	}

	alt, caption, err := h.resolveMetaEdit(rctx, fileID, req)
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	view, err := h.service.UpdateAssetMeta(rctx, fileID, alt, caption)
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	c.JSON(consts.StatusOK, common.CommonResponse{
		Code: consts.StatusOK,
		Data: map[string]any{"file": view},
	})
}

// resolveMetaEdit merges a partial edit with the current values so a patch
// that sets only alt never clears the caption.
func (h *MediaHandler) resolveMetaEdit(ctx context.Context, fileID string, req PatchAssetRequest) (string, string, error) {
	view, err := h.service.GetAsset(ctx, fileID)
	if err != nil {
		return "", "", err
	}
	alt := view.Alt
	caption := view.Caption
	if req.Alt != nil {
		alt = *req.Alt
	}
	if req.Caption != nil {
		caption = *req.Caption
	}
	return alt, caption, nil
}

// CreateFolderRequest names the new folder; parent_id is empty for root.
type CreateFolderRequest struct {
	Name     string `json:"name"`
	ParentID string `json:"parent_id"`
}

// CreateFolder creates a catalog folder, rejecting name collisions under
// the same parent.
func (h *MediaHandler) CreateFolder(ctx context.Context, c *app.RequestContext) {
	var req CreateFolderRequest
	if err := c.BindAndValidate(&req); err != nil {
		writeBadRequest(c, err)
		return
	}

	rctx := EnrichContext(ctx, c)
	folder, err := h.service.CreateFolder(rctx, req.Name, req.ParentID, common.GetActor(rctx))
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	c.JSON(consts.StatusOK, common.CommonResponse{
		Code: consts.StatusOK,
		Data: map[string]any{"folder": folder},
	})
}

// DeleteFolder removes an empty folder.
func (h *MediaHandler) DeleteFolder(ctx context.Context, c *app.RequestContext) {
	folderID := c.Param("folderID")
	if err := h.service.DeleteFolder(EnrichContext(ctx, c), folderID); err != nil {
		writeCatalogError(c, err)
		return
	}
	c.JSON(consts.StatusOK, common.CommonResponse{Code: consts.StatusOK})
}

// MarkupRequest selects the assets to render, in insertion order.
type MarkupRequest struct {
	FileIDs []string `json:"file_ids"`
}

// Markup renders the selected assets into editor-ready HTML fragments.
func (h *MediaHandler) Markup(ctx context.Context, c *app.RequestContext) {
	var req MarkupRequest
	if err := c.BindAndValidate(&req); err != nil {
		writeBadRequest(c, err)
		return
	}
	if len(req.FileIDs) == 0 {
		req.FileIDs = ParseFileIDs(c.Query("file_ids"))
	}
	if len(req.FileIDs) == 0 {
		writeBadRequest(c, errors.New("file_ids is required"))
		return
	}

	fragments, err := h.service.Markup(EnrichContext(ctx, c), req.FileIDs)
	if err != nil {
		writeInternalError(c, err)
		return
	}
	c.JSON(consts.StatusOK, common.CommonResponse{
		Code: consts.StatusOK,
		Data: map[string]any{"markup": fragments},
	})
}

func writeUploadError(c *app.RequestContext, err error) {
	switch {
	case errors.Is(err, service.ErrUploadRejected):
		writeBadRequest(c, err)
	case errors.Is(err, service.ErrFolderNotFound):
		writeNotFound(c, err)
	default:
		writeInternalError(c, err)
	}
}

func writeCatalogError(c *app.RequestContext, err error) {
	switch {
	case errors.Is(err, service.ErrFolderExists), errors.Is(err, service.ErrFolderNotEmpty):
		writeConflict(c, err)
	case errors.Is(err, service.ErrAssetNotFound), errors.Is(err, service.ErrFolderNotFound):
		writeNotFound(c, err)
	case errors.Is(err, service.ErrInvalidFolder):
		writeBadRequest(c, err)
	default:
		writeInternalError(c, err)
	}
}
