// Package slack uploads report images to a Slack channel.
package slack

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/rotisserie/eris"
	slackapi "github.com/slack-go/slack"
)

// Publisher posts a file with a comment to a channel.
type Publisher interface {
	Publish(ctx context.Context, u Upload) (*Receipt, error)
}

// Upload is a single file post.
type Upload struct {
	Channel  string
	Filename string
	Title    string
	Comment  string
	Image    []byte
}

// Receipt identifies the uploaded file.
type Receipt struct {
	FileID string
	Title  string
}

// PublishError wraps any failure to deliver the upload.
type PublishError struct {
	Channel string
	Cause   error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("slack: publish to %s: %v", e.Channel, e.Cause)
}

func (e *PublishError) Unwrap() error {
	return e.Cause
}

// uploader is the subset of *slackapi.Client used here.
type uploader interface {
	UploadFileV2Context(ctx context.Context, params slackapi.UploadFileV2Parameters) (*slackapi.FileSummary, error)
}

// Option configures the publisher.
type Option func(*[]slackapi.Option)

// WithAPIURL sets a custom API base URL (for testing). It must end in "/".
func WithAPIURL(url string) Option {
	return func(o *[]slackapi.Option) {
		*o = append(*o, slackapi.OptionAPIURL(url))
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *[]slackapi.Option) {
		*o = append(*o, slackapi.OptionHTTPClient(hc))
	}
}

type publisher struct {
	api uploader
}

// NewPublisher creates a Publisher authenticated with a bot token.
func NewPublisher(token string, opts ...Option) Publisher {
	var apiOpts []slackapi.Option
	for _, opt := range opts {
		opt(&apiOpts)
	}
	return &publisher{api: slackapi.New(token, apiOpts...)}
}

// Publish performs exactly one upload. Platform rejections are returned as
// *PublishError and never retried.
func (p *publisher) Publish(ctx context.Context, u Upload) (*Receipt, error) {
	if u.Channel == "" {
		return nil, &PublishError{Cause: eris.New("channel is empty")}
	}
	if len(u.Image) == 0 {
		return nil, &PublishError{Channel: u.Channel, Cause: eris.New("image is empty")}
	}

	summary, err := p.api.UploadFileV2Context(ctx, slackapi.UploadFileV2Parameters{
		Channel:        u.Channel,
		Filename:       u.Filename,
		Title:          u.Title,
		InitialComment: u.Comment,
		Reader:         bytes.NewReader(u.Image),
		FileSize:       len(u.Image),
	})
	if err != nil {
		return nil, &PublishError{Channel: u.Channel, Cause: err}
	}

	return &Receipt{FileID: summary.ID, Title: summary.Title}, nil
}
