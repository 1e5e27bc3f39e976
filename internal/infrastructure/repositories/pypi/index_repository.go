package pypi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/reqlint/internal/domain/entities"
	"github.com/rios0rios0/reqlint/internal/domain/repositories"
)

const (
	indexName    = "pypi"
	retryWaitMin = 200 * time.Millisecond
	retryWaitMax = 2 * time.Second
)

// projectResponse is the subset of the PyPI JSON API we read.
type projectResponse struct {
	Info struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"info"`
	Releases map[string][]struct {
		Yanked bool `json:"yanked"`
	} `json:"releases"`
}

// IndexRepository talks to the PyPI JSON API (or a compatible mirror).
type IndexRepository struct {
	baseURL string
	token   string
	client  *retryablehttp.Client
}

// NewIndexRepository creates a PyPI client from the index settings.
func NewIndexRepository(settings entities.IndexSettings) repositories.IndexRepository {
	client := retryablehttp.NewClient()
	client.RetryMax = settings.Retries
	client.RetryWaitMin = retryWaitMin
	client.RetryWaitMax = retryWaitMax
	client.HTTPClient.Timeout = settings.Timeout
	client.Logger = leveledLogger{entry: logger.WithField("component", "index")}

	return &IndexRepository{
		baseURL: strings.TrimRight(settings.URL, "/"),
		token:   settings.Token,
		client:  client,
	}
}

func (r *IndexRepository) Name() string { return indexName }

// Releases fetches every published, installable version of project.
func (r *IndexRepository) Releases(ctx context.Context, project string) ([]entities.Release, error) {
	endpoint := fmt.Sprintf("%s/pypi/%s/json", r.baseURL, url.PathEscape(entities.NormalizeName(project)))

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	logger.Debugf("[index] GET %s", endpoint)
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", project, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", entities.ErrProjectNotFound, project)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("unexpected status code for %s: %d", project, resp.StatusCode)
	}

	var body projectResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&body); decodeErr != nil {
		return nil, fmt.Errorf("failed to parse index response for %s: %w", project, decodeErr)
	}

	releases := make([]entities.Release, 0, len(body.Releases))
	for version, files := range body.Releases {
		if len(files) == 0 {
			continue // nothing to install
		}
		yanked := true
		for _, file := range files {
			yanked = yanked && file.Yanked
		}
		releases = append(releases, entities.Release{Version: version, Yanked: yanked})
	}
	sort.Slice(releases, func(i, j int) bool { return releases[i].Version < releases[j].Version })
	return releases, nil
}

// leveledLogger adapts logrus to retryablehttp.LeveledLogger.
type leveledLogger struct {
	entry *logger.Entry
}

func (l leveledLogger) with(keysAndValues []interface{}) *logger.Entry {
	fields := logger.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return l.entry.WithFields(fields)
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.with(keysAndValues).Error(msg)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.with(keysAndValues).Debug(msg)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.with(keysAndValues).Debug(msg)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.with(keysAndValues).Warn(msg)
}
