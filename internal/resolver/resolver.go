// Package resolver determines the actual playable media URL behind a
// possibly-indirect playlist URL (M3U/M3U8/PLS).
package resolver

import (
	"bufio"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

const requestTimeout = 5 * time.Second

// Resolver probes content types and unwraps playlist container URLs.
// Resolution is deliberately lenient: any failure falls back to the
// original URL so that it never blocks playback.
type Resolver struct {
	client *resty.Client
	cache  *Cache
}

// NewResolver creates a resolver with a short request timeout.
// cache may be nil, in which case every resolution hits the network.
func NewResolver(cache *Cache) *Resolver {
	return &Resolver{
		client: resty.New().SetTimeout(requestTimeout),
		cache:  cache,
	}
}

// ProbeContentType issues a HEAD request and returns the MIME type with any
// parameter suffix stripped, lowercased. It returns the empty string on any
// network failure and never reports an error to the caller.
func (r *Resolver) ProbeContentType(url string) string {
	resp, err := r.client.R().Head(url)
	if err != nil {
		log.Debug().Err(err).Str("url", url).Msg("Content-type probe failed")
		return ""
	}

	contentType := strings.ToLower(resp.Header().Get("Content-Type"))
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = contentType[:idx]
	}
	return strings.TrimSpace(contentType)
}

// Resolve returns the playable stream URL behind url. If the URL looks like
// a playlist container (by extension or probed content type), the body is
// fetched and the first stream entry extracted. On any failure, or when no
// entry matches, the original URL is returned unchanged.
func (r *Resolver) Resolve(url string) string {
	if !r.looksLikePlaylist(url) {
		return url
	}

	if r.cache != nil {
		if resolved := r.cache.Get(url); resolved != "" {
			log.Debug().Str("url", url).Str("resolved", resolved).Msg("Resolved URL served from cache")
			return resolved
		}
	}

	resp, err := r.client.R().Get(url)
	if err != nil {
		log.Warn().Err(err).Str("url", url).Msg("Could not resolve playlist, using original URL")
		return url
	}
	if !resp.IsSuccess() {
		log.Warn().Int("status", resp.StatusCode()).Str("url", url).Msg("Playlist fetch returned non-success status")
		return url
	}

	resolved := extractStreamURL(string(resp.Body()))
	if resolved == "" {
		return url
	}

	if r.cache != nil {
		if err := r.cache.Save(url, resolved); err != nil {
			log.Debug().Err(err).Str("url", url).Msg("Failed to cache resolved URL")
		}
	}

	return resolved
}

func (r *Resolver) looksLikePlaylist(url string) bool {
	lowered := strings.ToLower(url)
	if strings.Contains(lowered, ".m3u") || strings.Contains(lowered, ".pls") {
		return true
	}

	contentType := r.ProbeContentType(url)
	return strings.Contains(contentType, "playlist")
}

// extractStreamURL pulls the first stream entry out of a playlist body.
// M3U style wins: the first line beginning with http. Otherwise, under a
// [playlist] section, the value of the first file1= key (PLS style).
func extractStreamURL(body string) string {
	scanner := bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(strings.ToLower(line), "http") {
			return line
		}
	}

	if !strings.Contains(strings.ToLower(body), "[playlist]") {
		return ""
	}

	scanner = bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(strings.ToLower(line), "file1=") {
			return strings.TrimSpace(line[len("file1="):])
		}
	}

	return ""
}
