package ingest

import (
	"context"

	"birdwatch/internal/adapters/classify/openai"
	"birdwatch/internal/modkit"
	"birdwatch/internal/services/scan/domain"
)

// classifier implements domain.Classifier using the chat-completions client
type classifier struct {
	c *openai.Client
}

// NewClassifier constructs a domain.Classifier from config under OPENAI_*
func NewClassifier(deps modkit.Deps) domain.Classifier {
	oa := deps.Cfg.Prefix("OPENAI_")
	return &classifier{
		c: openai.NewClient(openai.Options{
			BaseURL:    oa.MayString("BASE_URL", ""),
			APIKey:     oa.MustString("API_KEY"),
			Model:      oa.MayString("MODEL", ""),
			Timeout:    oa.MayDuration("TIMEOUT", 0),
			MaxRetries: oa.MayInt("RETRIES", 0),
			RetryBase:  oa.MayDuration("RETRY_BASE", 0),
		}),
	}
}

func (cl *classifier) Classify(ctx context.Context, rulesText, postText string) (domain.Verdict, error) {
	v, err := cl.c.Classify(ctx, rulesText, postText)
	if err != nil {
		return domain.Verdict{}, err
	}
	return domain.Verdict{
		Flagged:      v.IsViolation(),
		Tweet:        v.Tweet,
		Policy:       v.Policy,
		RuleID:       v.RuleID,
		RuleViolated: v.RuleViolated,
		Reason:       v.Reason,
	}, nil
}

// IsMalformed reports whether err marks an undecodable classifier reply
func IsMalformed(err error) bool { return openai.IsMalformed(err) }
