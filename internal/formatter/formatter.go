// package formatter provides functions to render tracks, feeds, and listening
// history to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/desertmoss/mrx/internal/feeds"
	"github.com/desertmoss/mrx/internal/models"
	"github.com/desertmoss/mrx/internal/shared"
)

// trackScore picks the display score for a track: the hybrid score when the
// backend sent one, otherwise the similarity score.
func trackScore(track models.Track) float64 {
	if track.HybridScore > 0 {
		return track.HybridScore
	}
	return track.SimilarityScore
}

// TracksToCSV converts tracks to CSV with columns: ID, Title, Artist, Album, Genre, Year, Duration, Score
func TracksToCSV(tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Album", "Genre", "Year", "Duration", "Score"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range tracks {
		record := []string{
			track.TrackID,
			track.Title,
			track.Artist,
			track.Album,
			track.Genre,
			strconv.Itoa(track.Year),
			shared.FormatDuration(track.Duration),
			shared.FormatScore(trackScore(track)),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// TracksToText converts tracks to a numbered plain text listing
func TracksToText(title string, tracks []models.Track) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("%s\n", title))
	buf.WriteString(fmt.Sprintf("Tracks: %d\n\n", len(tracks)))

	for i, track := range tracks {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, track.Artist, track.Title))
	}

	return buf.Bytes()
}

// FeedToMarkdown converts a feed snapshot to Markdown with a metadata header
// and a numbered track listing
func FeedToMarkdown(feed feeds.Feed) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", feed.Key))

	buf.WriteString(fmt.Sprintf("**Status**: %s\n", feed.Status))
	if feed.Algorithm != "" {
		buf.WriteString(fmt.Sprintf("**Algorithm**: %s\n", feed.Algorithm))
	}
	if !feed.FetchedAt.IsZero() {
		buf.WriteString(fmt.Sprintf("**Fetched**: %s\n", feed.FetchedAt.Format(time.RFC3339)))
	}
	if feed.Err != "" {
		buf.WriteString(fmt.Sprintf("**Error**: %s\n", feed.Err))
	}
	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n\n", len(feed.Items)))

	if len(feed.Items) == 0 {
		return buf.Bytes()
	}

	buf.WriteString("## Tracks\n\n")
	for i, track := range feed.Items {
		duration := shared.FormatDuration(track.Duration)
		albumPart := ""
		if track.Album != "" {
			albumPart = fmt.Sprintf(" (%s)", track.Album)
		}
		scorePart := ""
		if score := trackScore(track); score > 0 {
			scorePart = fmt.Sprintf(" {%s}", shared.FormatScore(score))
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s [%s]%s\n", i+1, track.Artist, track.Title, albumPart, duration, scorePart))
	}

	return buf.Bytes()
}

// HistoryToCSV converts history entries to CSV with columns: TrackID, PlayedAt, DurationPlayed, Completed
func HistoryToCSV(entries []models.HistoryEntry) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"TrackID", "PlayedAt", "DurationPlayed", "Completed"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, entry := range entries {
		record := []string{
			entry.TrackID,
			entry.PlayedAt.Format(time.RFC3339),
			shared.FormatDuration(entry.DurationPlayed),
			strconv.FormatBool(entry.Completed),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// HistoryToText converts history entries to plain text, most recent first as
// the backend returns them
func HistoryToText(entries []models.HistoryEntry) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Listening history: %d plays\n\n", len(entries)))

	for i, entry := range entries {
		marker := " "
		if entry.Completed {
			marker = "✓"
		}
		buf.WriteString(fmt.Sprintf("%d. %s %s (%s played at %s)\n",
			i+1,
			marker,
			entry.TrackID,
			shared.FormatDuration(entry.DurationPlayed),
			entry.PlayedAt.Format("2006-01-02 15:04"),
		))
	}

	return buf.Bytes()
}
