package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"minerva_app_go/config"

	"go.uber.org/zap"
)

// Export channels
const (
	ShareViaStorage = "storage"
	ShareViaEmail   = "email"
)

// ShareResult describes where an exported file went
type ShareResult struct {
	Via       string `json:"via"`
	Key       string `json:"key,omitempty"`
	URL       string `json:"url,omitempty"`
	Recipient string `json:"recipient,omitempty"`
}

// Sharer hands a rendered file to the user through some channel
type Sharer interface {
	Share(ctx context.Context, file *RenderedFile, filename string) (*ShareResult, error)
}

// exportLinkTTL is how long signed download links stay valid
const exportLinkTTL = 24 * time.Hour

// StorageSharer uploads the file and returns a download link
type StorageSharer struct {
	Provider StorageProvider
	// KeyFunc builds the object key; defaults to a random key under "exports"
	KeyFunc func(filename string) string
}

// NewStorageSharer creates a sharer backed by the given storage provider
func NewStorageSharer(provider StorageProvider, keyFunc func(filename string) string) *StorageSharer {
	return &StorageSharer{Provider: provider, KeyFunc: keyFunc}
}

// Share uploads the file. R2 yields a signed URL; local storage a public path.
func (s *StorageSharer) Share(ctx context.Context, file *RenderedFile, filename string) (*ShareResult, error) {
	if s.Provider == nil || !s.Provider.IsConfigured() {
		return nil, errors.New("storage is not configured")
	}

	key := GenerateStorageKey("exports", filename)
	if s.KeyFunc != nil {
		key = s.KeyFunc(filename)
	}

	stored, err := s.Provider.UploadReader(ctx, bytes.NewReader(file.Data), key, file.ContentType, file.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", filename, err)
	}

	url, err := s.Provider.GetSignedURL(ctx, stored.Key, exportLinkTTL)
	if err != nil || url == "" {
		url = s.Provider.GetPublicURL(stored.Key)
	}

	zap.L().Info("Document shared via storage", zap.String("key", stored.Key), zap.Int64("size", file.Size()))
	return &ShareResult{Via: ShareViaStorage, Key: stored.Key, URL: url}, nil
}

// EmailSharer sends the file as an attachment
type EmailSharer struct {
	Config *config.Config
	To     string
	Title  string
	Lang   string
}

// Share emails the file. In test mode the message is only logged.
func (s *EmailSharer) Share(ctx context.Context, file *RenderedFile, filename string) (*ShareResult, error) {
	if s.To == "" {
		return nil, errors.New("email recipient is required")
	}

	email := BuildDocumentExportEmail(s.To, s.Title, file, filename, s.Lang)
	if err := SendEmailContext(ctx, s.Config, email); err != nil {
		return nil, err
	}

	return &ShareResult{Via: ShareViaEmail, Recipient: s.To}, nil
}
