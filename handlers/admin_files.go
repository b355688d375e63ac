package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/filesystem"

	"projectmarket/cart"
	"projectmarket/catalog"
	"projectmarket/config"
	"projectmarket/services"
	"projectmarket/templates"
)

// sniffLen is how much of an upload is read for content detection.
const sniffLen = 3072

// readUpload opens the multipart field and returns its header and first bytes.
func readUpload(r *http.Request, field string) (*multipart.FileHeader, []byte, error) {
	f, header, err := r.FormFile(field)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s field: %w", field, err)
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("read %s content: %w", field, err)
	}
	return header, head[:n], nil
}

func storedFile(header *multipart.FileHeader, name string) (*filesystem.File, error) {
	file, err := filesystem.NewFileFromMultipart(header)
	if err != nil {
		return nil, err
	}
	file.Name = name
	return file, nil
}

func renderFiles(e *core.RequestEvent, app *pocketbase.PocketBase, cfg config.Config, projectID string) error {
	p, err := catalog.Get(app, projectID)
	if err != nil {
		log.Printf("admin_files: %v", err)
		return ErrorToast(e, http.StatusNotFound, "Project not found")
	}
	if !isPartial(e.Request) {
		return e.Redirect(http.StatusSeeOther, "/admin/projects/"+projectID+"/edit")
	}
	return templates.AdminFiles(adminFilesData(app, p, cfg)).Render(e.Request.Context(), e.Response)
}

// HandleAdminFileUpload returns a handler that attaches a UI, code or
// documentation file to a project.
func HandleAdminFileUpload(app *pocketbase.PocketBase, cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		kind := e.Request.FormValue("file_type")

		header, head, err := readUpload(e.Request, "file")
		if err != nil {
			log.Printf("admin_upload: %v", err)
			return ErrorToast(e, http.StatusBadRequest, "Choose a file to upload")
		}

		check, err := services.CheckFileUpload(kind, header.Filename, head, header.Size, cfg.MaxUploadBytes)
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, err.Error())
		}

		file, err := storedFile(header, check.StoredName)
		if err != nil {
			log.Printf("admin_upload: could not open upload: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not store the file")
		}

		if _, err := catalog.AttachFile(app, projectID, kind, header.Filename, header.Size, file); err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				return ErrorToast(e, http.StatusNotFound, "Project not found")
			}
			log.Printf("admin_upload: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not store the file")
		}

		SetToast(e, cart.LevelSuccess, fmt.Sprintf("Uploaded %s file %s", services.FileKindLabel(kind), header.Filename))
		return renderFiles(e, app, cfg, projectID)
	}
}

// HandleAdminFileDelete returns a handler that removes an attached file.
func HandleAdminFileDelete(app *pocketbase.PocketBase, cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		fileID := e.Request.PathValue("fileId")

		files, err := catalog.Files(app, projectID)
		if err != nil {
			log.Printf("admin_file_delete: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not delete the file")
		}
		owned := false
		for _, f := range files {
			if f.ID == fileID {
				owned = true
				break
			}
		}
		if !owned {
			return ErrorToast(e, http.StatusNotFound, "File not found")
		}

		f, err := catalog.DeleteFile(app, fileID)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				return ErrorToast(e, http.StatusNotFound, "File not found")
			}
			log.Printf("admin_file_delete: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not delete the file")
		}

		SetToast(e, cart.LevelSuccess, "Deleted "+f.FileName)
		return renderFiles(e, app, cfg, projectID)
	}
}

// HandleAdminImageUpload returns a handler that sets a project's cover image.
func HandleAdminImageUpload(app *pocketbase.PocketBase, cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")

		header, head, err := readUpload(e.Request, "image")
		if err != nil {
			log.Printf("admin_image: %v", err)
			return ErrorToast(e, http.StatusBadRequest, "Choose an image to upload")
		}

		check, err := services.CheckImageUpload(header.Filename, head, header.Size, cfg.MaxImageBytes)
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, err.Error())
		}

		file, err := storedFile(header, check.StoredName)
		if err != nil {
			log.Printf("admin_image: could not open upload: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not store the image")
		}

		if _, err := catalog.SetImage(app, projectID, file); err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				return ErrorToast(e, http.StatusNotFound, "Project not found")
			}
			log.Printf("admin_image: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not store the image")
		}

		SetToast(e, cart.LevelSuccess, "Cover image updated")
		return renderFiles(e, app, cfg, projectID)
	}
}
