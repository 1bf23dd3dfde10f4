package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/techvibe/backoffice/internal/application/port"
	"github.com/techvibe/backoffice/internal/domain/entity"
)

// TranslationService fills the missing half of bilingual site copy
type TranslationService interface {
	Enabled() bool
	Translate(ctx context.Context, text string, from, to entity.Lang) (string, error)
	// FillMissing translates whichever of en/bn is empty from the other
	FillMissing(ctx context.Context, en, bn string) (string, string, error)
}

type translationServiceImpl struct {
	translator port.Translator
	logger     Logger
}

// NewTranslationService creates a new TranslationService. A nil translator disables it.
func NewTranslationService(translator port.Translator, logger Logger) TranslationService {
	return &translationServiceImpl{
		translator: translator,
		logger:     logger,
	}
}

func (s *translationServiceImpl) Enabled() bool {
	return s.translator != nil
}

func (s *translationServiceImpl) Translate(ctx context.Context, text string, from, to entity.Lang) (string, error) {
	if s.translator == nil {
		return "", entity.ErrTranslatorDisabled
	}
	if strings.TrimSpace(text) == "" || from == to {
		return text, nil
	}

	out, err := s.translator.Translate(ctx, text, from, to)
	if err != nil {
		s.logger.Error("Translation failed", "from", from, "to", to, "error", err)
		return "", fmt.Errorf("translate %s->%s: %w", from, to, err)
	}
	return out, nil
}

func (s *translationServiceImpl) FillMissing(ctx context.Context, en, bn string) (string, string, error) {
	switch {
	case strings.TrimSpace(bn) == "" && strings.TrimSpace(en) != "":
		out, err := s.Translate(ctx, en, entity.LangEnglish, entity.LangBengali)
		return en, out, err
	case strings.TrimSpace(en) == "" && strings.TrimSpace(bn) != "":
		out, err := s.Translate(ctx, bn, entity.LangBengali, entity.LangEnglish)
		return out, bn, err
	}
	return en, bn, nil
}
