package service

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Waypost/waypost/internal/domain"
	"github.com/Waypost/waypost/internal/domain/mocks"
	"github.com/Waypost/waypost/pkg/logger"
	pkgmocks "github.com/Waypost/waypost/pkg/mocks"
)

type mediaFixture struct {
	provider *mocks.MockProviderClient
	store    *pkgmocks.MockFileStore
	svc      *MediaService
}

func setupMediaService(t *testing.T) *mediaFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := &mediaFixture{
		provider: mocks.NewMockProviderClient(ctrl),
		store:    pkgmocks.NewMockFileStore(ctrl),
	}
	f.svc = NewMediaService(f.provider, f.store, logger.NewTestLogger(t))
	return f
}

func TestFetchInboundMediaStoresAndRewritesURL(t *testing.T) {
	f := setupMediaService(t)

	data := []byte("jpeg-bytes")
	f.provider.EXPECT().
		GetMediaInfo(gomock.Any(), "media-1").
		Return(&domain.ProviderMediaInfo{
			URL:      "https://lookaside.example.net/media-1",
			MimeType: "image/jpeg",
			SHA256:   "abc123",
		}, nil)
	f.provider.EXPECT().
		DownloadMedia(gomock.Any(), "https://lookaside.example.net/media-1").
		Return(data, nil)
	f.store.EXPECT().
		Put(gomock.Any(), "workspaces/ws1/media/media-1.jpg", data, "image/jpeg").
		Return("https://cdn.example.net/workspaces/ws1/media/media-1.jpg", nil)

	ref, err := f.svc.FetchInboundMedia(context.Background(), "ws1", &domain.InboundMedia{
		ProviderMediaID: "media-1",
		MimeType:        "image/jpeg",
		Caption:         "invoice photo",
	})
	require.NoError(t, err)

	assert.Equal(t, "media-1", ref.ProviderMediaID)
	assert.Equal(t, "image/jpeg", ref.MimeType)
	assert.Equal(t, "abc123", ref.SHA256)
	assert.Equal(t, "invoice photo", ref.Caption)
	assert.Equal(t, "https://cdn.example.net/workspaces/ws1/media/media-1.jpg", ref.URL)
}

func TestFetchInboundMediaFallsBackToWebhookMime(t *testing.T) {
	f := setupMediaService(t)

	f.provider.EXPECT().
		GetMediaInfo(gomock.Any(), "media-1").
		Return(&domain.ProviderMediaInfo{URL: "https://lookaside.example.net/media-1"}, nil)
	f.provider.EXPECT().
		DownloadMedia(gomock.Any(), gomock.Any()).
		Return([]byte("ogg-bytes"), nil)
	f.store.EXPECT().
		Put(gomock.Any(), "workspaces/ws1/media/media-1.ogg", gomock.Any(), "audio/ogg").
		Return("stored://media-1.ogg", nil)

	ref, err := f.svc.FetchInboundMedia(context.Background(), "ws1", &domain.InboundMedia{
		ProviderMediaID: "media-1",
		MimeType:        "audio/ogg",
	})
	require.NoError(t, err)
	assert.Equal(t, "audio/ogg", ref.MimeType)
}

func TestFetchInboundMediaResolveFailure(t *testing.T) {
	f := setupMediaService(t)

	f.provider.EXPECT().
		GetMediaInfo(gomock.Any(), "media-1").
		Return(nil, assert.AnError)

	_, err := f.svc.FetchInboundMedia(context.Background(), "ws1", &domain.InboundMedia{
		ProviderMediaID: "media-1",
	})
	assert.Error(t, err)
}

func TestFetchInboundMediaStoreFailure(t *testing.T) {
	f := setupMediaService(t)

	f.provider.EXPECT().
		GetMediaInfo(gomock.Any(), "media-1").
		Return(&domain.ProviderMediaInfo{URL: "https://lookaside.example.net/media-1", MimeType: "application/pdf"}, nil)
	f.provider.EXPECT().
		DownloadMedia(gomock.Any(), gomock.Any()).
		Return([]byte("%PDF-1.7"), nil)
	f.store.EXPECT().
		Put(gomock.Any(), "workspaces/ws1/media/media-1.pdf", gomock.Any(), "application/pdf").
		Return("", assert.AnError)

	_, err := f.svc.FetchInboundMedia(context.Background(), "ws1", &domain.InboundMedia{
		ProviderMediaID: "media-1",
	})
	assert.Error(t, err)
}

func TestExtensionForMime(t *testing.T) {
	assert.Equal(t, "jpg", ExtensionForMime("image/jpeg"))
	assert.Equal(t, "mp3", ExtensionForMime("audio/mpeg"))
	assert.Equal(t, "bin", ExtensionForMime("application/x-mystery"))
	assert.Equal(t, "bin", ExtensionForMime(""))
}
