package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techvibe/backoffice/internal/application/dispatcher"
	"github.com/techvibe/backoffice/internal/domain/entity"
	"github.com/techvibe/backoffice/internal/domain/event"
)

func newBusinessInfoRepo() *mockBusinessInfoRepo {
	return &mockBusinessInfoRepo{info: &entity.BusinessInfo{
		CompanyNameEN: "TechVibe",
		CompanyNameBN: "টেকভাইব",
		Email:         "hello@techvibe.test",
		SocialLinks:   map[string]string{"github": "https://github.com/techvibe"},
	}}
}

func TestBusinessInfoService_FetchesOnce(t *testing.T) {
	repo := newBusinessInfoRepo()
	svc := NewBusinessInfoService(repo, nil, &mockLogger{})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			info, err := svc.Get(ctx)
			assert.NoError(t, err)
			assert.Equal(t, "TechVibe", info.CompanyNameEN)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, repo.GetCalls())
}

func TestBusinessInfoService_ReturnsCopies(t *testing.T) {
	repo := newBusinessInfoRepo()
	svc := NewBusinessInfoService(repo, nil, &mockLogger{})
	ctx := context.Background()

	first, err := svc.Get(ctx)
	require.NoError(t, err)
	first.CompanyNameEN = "mutated"
	first.SocialLinks["github"] = "mutated"

	second, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "TechVibe", second.CompanyNameEN)
	assert.Equal(t, "https://github.com/techvibe", second.SocialLinks["github"])
}

func TestBusinessInfoService_UpdateInvalidatesThroughEvent(t *testing.T) {
	repo := newBusinessInfoRepo()
	d := dispatcher.NewDispatcher()
	svc := NewBusinessInfoService(repo, d, &mockLogger{})
	d.SubscribeNamed(event.TypeBusinessInfoUpdated, "business-info-cache", svc.InvalidationHandler())
	ctx := context.Background()

	_, err := svc.Get(ctx)
	require.NoError(t, err)

	err = svc.Update(ctx, &entity.BusinessInfo{CompanyNameEN: "TechVibe Ltd", Email: "sales@techvibe.test"})
	require.NoError(t, err)

	info, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "TechVibe Ltd", info.CompanyNameEN)
	assert.Equal(t, 2, repo.GetCalls())
}

func TestBusinessInfoService_UpdateValidates(t *testing.T) {
	svc := NewBusinessInfoService(newBusinessInfoRepo(), nil, &mockLogger{})

	err := svc.Update(context.Background(), &entity.BusinessInfo{CompanyNameEN: "X", Email: "nope"})
	assert.ErrorIs(t, err, entity.ErrInvalidInput)

	err = svc.Update(context.Background(), &entity.BusinessInfo{})
	assert.ErrorIs(t, err, entity.ErrInvalidInput)
}

func TestBusinessInfoService_RefreshAndLocalize(t *testing.T) {
	repo := newBusinessInfoRepo()
	svc := NewBusinessInfoService(repo, nil, &mockLogger{})
	ctx := context.Background()

	require.NoError(t, svc.Refresh(ctx))
	loc, err := svc.Localized(ctx, entity.LangBengali)
	require.NoError(t, err)
	assert.Equal(t, "টেকভাইব", loc.CompanyName)
	assert.Equal(t, 1, repo.GetCalls())

	svc.Invalidate()
	_, err = svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.GetCalls())
}

func TestBusinessInfoService_InvalidateDuringRefreshWins(t *testing.T) {
	repo := newBusinessInfoRepo()
	svc := NewBusinessInfoService(repo, nil, &mockLogger{})
	ctx := context.Background()

	// the refresh reads the old row, then stalls until released
	var once sync.Once
	reading := make(chan struct{})
	release := make(chan struct{})
	repo.afterGet = func() {
		once.Do(func() {
			close(reading)
			<-release
		})
	}

	refreshed := make(chan error, 1)
	go func() { refreshed <- svc.Refresh(ctx) }()
	<-reading

	// an update lands and invalidates while the refresh is in flight
	require.NoError(t, repo.Save(ctx, &entity.BusinessInfo{CompanyNameEN: "TechVibe Ltd"}))
	invalidated := make(chan struct{})
	go func() {
		svc.Invalidate()
		close(invalidated)
	}()

	time.Sleep(20 * time.Millisecond)
	close(release)
	require.NoError(t, <-refreshed)
	<-invalidated

	info, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "TechVibe Ltd", info.CompanyNameEN)
}
