package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"food-consult-bot/internal/constant"
	"food-consult-bot/pkg/llm"
	"food-consult-bot/pkg/outcome"
	"food-consult-bot/pkg/recipe"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var errNoHit = errors.New("recipe search returned no hits")

// ISuggestionService wraps the generative service and the recipe search.
// Nothing here returns an error; failures come back as Unavailable.
type ISuggestionService interface {
	SuggestDish(ctx context.Context, genreName, styleName, request string) outcome.Result[string]
	AbbreviatedRecipe(ctx context.Context, food string) outcome.Result[string]
	DescribeDish(ctx context.Context, food string) outcome.Result[string]
	SearchRecipe(ctx context.Context, food string) outcome.Result[recipe.Hit]
}

type suggestionService struct {
	provider llm.LLMProvider
	searcher recipe.Searcher
	timeout  time.Duration
}

// NewSuggestionService accepts a nil searcher, which makes every search unavailable.
func NewSuggestionService(provider llm.LLMProvider, searcher recipe.Searcher, timeout time.Duration) ISuggestionService {
	return &suggestionService{
		provider: provider,
		searcher: searcher,
		timeout:  timeout,
	}
}

var tracer = otel.Tracer("food-consult-bot/service")

func (s *suggestionService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *suggestionService) generate(ctx context.Context, span string, prompt string, opts ...llm.Option) outcome.Result[string] {
	ctx, sp := tracer.Start(ctx, span, trace.WithSpanKind(trace.SpanKindClient))
	defer sp.End()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	text, err := s.provider.Generate(ctx, prompt, opts...)
	if err == nil && strings.TrimSpace(text) == "" {
		err = llm.ErrEmptyResponse
	}
	if err != nil {
		sp.RecordError(err)
		sp.SetStatus(codes.Error, err.Error())
		return outcome.Unavailable[string](err)
	}
	return outcome.Ok(strings.TrimSpace(text))
}

func (s *suggestionService) SuggestDish(ctx context.Context, genreName, styleName, request string) outcome.Result[string] {
	prompt := fmt.Sprintf(constant.DishSuggestionPromptV1, genreName, styleName, request)
	res := s.generate(ctx, "suggestion.dish", prompt, llm.WithMaxTokens(64))
	dish, ok := res.Get()
	if !ok {
		return res
	}
	// Models occasionally wrap the name in quotes or add a second line
	dish, _, _ = strings.Cut(dish, "\n")
	dish = strings.Trim(strings.TrimSpace(dish), "「」\"'*")
	if dish == "" {
		return outcome.Unavailable[string](llm.ErrEmptyResponse)
	}
	return outcome.Ok(dish)
}

func (s *suggestionService) AbbreviatedRecipe(ctx context.Context, food string) outcome.Result[string] {
	return s.generate(ctx, "suggestion.recipe", fmt.Sprintf(constant.AbbreviatedRecipePromptV1, food))
}

func (s *suggestionService) DescribeDish(ctx context.Context, food string) outcome.Result[string] {
	return s.generate(ctx, "suggestion.detail", fmt.Sprintf(constant.DishDescriptionPromptV1, food))
}

func (s *suggestionService) SearchRecipe(ctx context.Context, food string) outcome.Result[recipe.Hit] {
	if s.searcher == nil {
		return outcome.Unavailable[recipe.Hit](errors.New("recipe search is not configured"))
	}

	ctx, sp := tracer.Start(ctx, "suggestion.search", trace.WithSpanKind(trace.SpanKindClient))
	defer sp.End()
	sp.SetAttributes(attribute.String("food", food))

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	hits, err := s.searcher.Search(ctx, food)
	if err != nil {
		sp.RecordError(err)
		sp.SetStatus(codes.Error, err.Error())
		return outcome.Unavailable[recipe.Hit](err)
	}
	if len(hits) == 0 {
		return outcome.Unavailable[recipe.Hit](errNoHit)
	}
	return outcome.Ok(hits[0])
}
