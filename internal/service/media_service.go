package service

import (
	"context"
	"fmt"

	"github.com/Waypost/waypost/internal/domain"
	"github.com/Waypost/waypost/pkg/logger"
	"github.com/Waypost/waypost/pkg/storage"
)

// mimeExtensions maps inbound media mime types to file extensions. Anything
// else is stored as .bin.
var mimeExtensions = map[string]string{
	"image/jpeg":      "jpg",
	"image/png":       "png",
	"image/webp":      "webp",
	"video/mp4":       "mp4",
	"video/3gpp":      "3gp",
	"audio/mpeg":      "mp3",
	"audio/ogg":       "ogg",
	"audio/wav":       "wav",
	"application/pdf": "pdf",
}

// ExtensionForMime returns the storage extension for a mime type.
func ExtensionForMime(mimeType string) string {
	if ext, ok := mimeExtensions[mimeType]; ok {
		return ext
	}
	return "bin"
}

// MediaService resolves inbound media ids against the provider and persists
// the bytes under workspaces/<id>/media/<mediaId>.<ext>.
type MediaService struct {
	provider domain.ProviderClient
	store    storage.FileStore
	logger   logger.Logger
}

// NewMediaService creates a new media service
func NewMediaService(provider domain.ProviderClient, store storage.FileStore, log logger.Logger) *MediaService {
	return &MediaService{
		provider: provider,
		store:    store,
		logger:   log,
	}
}

// FetchInboundMedia downloads and stores the media of an inbound message,
// returning the reference to persist on the message. The URL field points at
// the stored location, not the provider origin.
func (s *MediaService) FetchInboundMedia(ctx context.Context, workspaceID string, media *domain.InboundMedia) (*domain.MediaRef, error) {
	info, err := s.provider.GetMediaInfo(ctx, media.ProviderMediaID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve media %s: %w", media.ProviderMediaID, err)
	}

	data, err := s.provider.DownloadMedia(ctx, info.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to download media %s: %w", media.ProviderMediaID, err)
	}

	mimeType := info.MimeType
	if mimeType == "" {
		mimeType = media.MimeType
	}
	key := fmt.Sprintf("workspaces/%s/media/%s.%s", workspaceID, media.ProviderMediaID, ExtensionForMime(mimeType))

	location, err := s.store.Put(ctx, key, data, mimeType)
	if err != nil {
		return nil, fmt.Errorf("failed to store media %s: %w", media.ProviderMediaID, err)
	}

	s.logger.WithFields(map[string]interface{}{
		"workspace_id": workspaceID,
		"media_id":     media.ProviderMediaID,
		"bytes":        len(data),
	}).Debug("Stored inbound media")

	return &domain.MediaRef{
		ProviderMediaID: media.ProviderMediaID,
		MimeType:        mimeType,
		SHA256:          info.SHA256,
		Caption:         media.Caption,
		Filename:        media.Filename,
		URL:             location,
	}, nil
}
