package tools

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode"
)

const (
	DefaultTopicCategory = "tech"
	DefaultTopicLimit    = 5
	DefaultSearchResults = 3
	MaxSearchResults     = 10
)

var (
	ErrEmptyQuery = errors.New("query is required")
	ErrEmptyText  = errors.New("text is required")
)

// Topic is one trending subject.
type Topic struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Mentions int    `json:"mentions"`
}

// Article is one search hit.
type Article struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Source  string `json:"source"`
	Snippet string `json:"snippet"`
}

// Sentiment is the lexicon score of a text.
type Sentiment struct {
	Label    string  `json:"label"`
	Score    float64 `json:"score"`
	Positive int     `json:"positive"`
	Negative int     `json:"negative"`
}

// Sentiment labels.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

var topicCatalogue = map[string][]Topic{
	"tech": {
		{Title: "AI agents in production", Category: "tech", Mentions: 18400},
		{Title: "Open-weight language models", Category: "tech", Mentions: 15200},
		{Title: "WebAssembly on the server", Category: "tech", Mentions: 9100},
		{Title: "Rust and Go in infrastructure", Category: "tech", Mentions: 8700},
		{Title: "Passkeys replacing passwords", Category: "tech", Mentions: 7300},
		{Title: "Edge inference hardware", Category: "tech", Mentions: 6900},
	},
	"science": {
		{Title: "Room-temperature superconductor claims", Category: "science", Mentions: 12100},
		{Title: "CRISPR therapies approved", Category: "science", Mentions: 9800},
		{Title: "James Webb deep field results", Category: "science", Mentions: 8600},
	},
	"business": {
		{Title: "GPU supply and pricing", Category: "business", Mentions: 11300},
		{Title: "Remote work policy reversals", Category: "business", Mentions: 7600},
		{Title: "Startup funding for AI tooling", Category: "business", Mentions: 7100},
	},
}

// TrendingTopics returns up to limit topics for category, most mentioned
// first. Unknown categories fall back to tech.
func TrendingTopics(category string, limit int) []Topic {
	category = strings.ToLower(strings.TrimSpace(category))
	topics, ok := topicCatalogue[category]
	if !ok {
		topics = topicCatalogue[DefaultTopicCategory]
	}
	if limit <= 0 {
		limit = DefaultTopicLimit
	}
	if limit > len(topics) {
		limit = len(topics)
	}
	return append([]Topic(nil), topics[:limit]...)
}

var articleSources = []string{"techcrunch.com", "arstechnica.com", "theverge.com", "wired.com", "news.ycombinator.com"}

// SearchArticles returns deterministic placeholder results for query.
func SearchArticles(query string, maxResults int) ([]Article, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if maxResults <= 0 {
		maxResults = DefaultSearchResults
	}
	if maxResults > MaxSearchResults {
		maxResults = MaxSearchResults
	}
	slug := slugify(query)
	out := make([]Article, 0, maxResults)
	for i := 0; i < maxResults; i++ {
		source := articleSources[i%len(articleSources)]
		out = append(out, Article{
			Title:   fmt.Sprintf("%s: what changed this week (part %d)", query, i+1),
			URL:     fmt.Sprintf("https://%s/articles/%s-%d", source, slug, i+1),
			Source:  source,
			Snippet: fmt.Sprintf("An overview of recent developments around %s.", query),
		})
	}
	return out, nil
}

func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

var (
	positiveWords = wordSet("good", "great", "excellent", "amazing", "love", "like", "happy", "positive",
		"fast", "growth", "win", "success", "improved", "breakthrough", "exciting", "innovative", "strong")
	negativeWords = wordSet("bad", "poor", "terrible", "awful", "hate", "sad", "negative", "slow",
		"decline", "loss", "fail", "failure", "broken", "risk", "concern", "weak", "crash")
)

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// AnalyzeSentiment scores text by counting lexicon hits. The score is
// (positive-negative)/(positive+negative), zero when nothing matches.
func AnalyzeSentiment(text string) (Sentiment, error) {
	if strings.TrimSpace(text) == "" {
		return Sentiment{}, ErrEmptyText
	}
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var s Sentiment
	for _, w := range words {
		if _, ok := positiveWords[w]; ok {
			s.Positive++
		}
		if _, ok := negativeWords[w]; ok {
			s.Negative++
		}
	}
	if total := s.Positive + s.Negative; total > 0 {
		s.Score = math.Round(float64(s.Positive-s.Negative)/float64(total)*100) / 100
	}
	switch {
	case s.Score > 0.1:
		s.Label = SentimentPositive
	case s.Score < -0.1:
		s.Label = SentimentNegative
	default:
		s.Label = SentimentNeutral
	}
	return s, nil
}

type trendingArgs struct {
	Category string `json:"category,omitempty" jsonschema:"enum=tech,enum=science,enum=business" jsonschema_description:"Topic category. Defaults to tech."`
	Limit    int    `json:"limit,omitempty" jsonschema_description:"Maximum number of topics to return."`
}

type searchArgs struct {
	Query      string `json:"query" jsonschema_description:"Search terms."`
	MaxResults int    `json:"max_results,omitempty" jsonschema_description:"Maximum number of articles, at most 10."`
}

type sentimentArgs struct {
	Text string `json:"text" jsonschema_description:"Text to analyze."`
}

func newTrendingTool(ctx Context) tool {
	return &funcTool[trendingArgs]{
		ctx:         ctx,
		toolName:    NameTrendingTopics,
		description: "Fetch currently trending topics for a category.",
		run: func(ctx Context, args trendingArgs) (any, error) {
			return TrendingTopics(args.Category, args.Limit), nil
		},
	}
}

func newSearchTool(ctx Context) tool {
	return &funcTool[searchArgs]{
		ctx:         ctx,
		toolName:    NameSearchArticles,
		description: "Search recent articles about a query.",
		run: func(ctx Context, args searchArgs) (any, error) {
			return SearchArticles(args.Query, args.MaxResults)
		},
	}
}

func newSentimentTool(ctx Context) tool {
	return &funcTool[sentimentArgs]{
		ctx:         ctx,
		toolName:    NameSentiment,
		description: "Analyze the sentiment of a piece of text.",
		run: func(ctx Context, args sentimentArgs) (any, error) {
			return AnalyzeSentiment(args.Text)
		},
	}
}
