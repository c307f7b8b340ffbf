package ui

import (
	"fmt"
	"strings"
)

func (m Model) renderLibrary() string {
	rows := make([]string, 0, len(m.data.files))
	for _, f := range m.data.files {
		quality := f.Quality.Quality.Name
		rows = append(rows, fmt.Sprintf("%s · %s · %s", movieTitle(f.Movie), quality, formatBytes(f.Size)))
	}

	detail := ""
	if sel := m.selected[ViewLibrary]; sel < len(m.data.files) {
		detail = m.fileDetail(m.data.files[sel])
	}
	return m.renderSplit("Library · newest first", rows, "No downloaded movies. Press S to sync.", "Movie", detail)
}

func (m Model) fileDetail(f fileEntry) string {
	mv := f.Movie
	w := m.newDetailWriter(m.detailWidth())
	w.heading(movieTitle(mv))
	w.line("Server", m.serverName(f.ServerID))
	w.line("IMDb", f.ImdbID)
	w.line("Studio", mv.Studio)
	w.line("Genres", strings.Join(mv.Genres, ", "))
	if mv.Runtime > 0 {
		w.line("Runtime", fmt.Sprintf("%d min", mv.Runtime))
	}
	if mv.Ratings.Votes > 0 {
		w.line("Rating", fmt.Sprintf("%.1f (%d votes)", mv.Ratings.Value, mv.Ratings.Votes))
	}
	w.line("Quality", f.Quality.Quality.Name)
	w.line("Size", formatBytes(f.Size))
	if added := f.ParsedDateAdded(); !added.IsZero() {
		w.line("Added", added.Local().Format("2006-01-02 15:04"))
	}
	w.line("File", f.RelativePath)
	if mi := f.MediaInfo; mi.VideoFormat != "" {
		w.line("Video", fmt.Sprintf("%s %dx%d", mi.VideoFormat, mi.Width, mi.Height))
		w.line("Audio", fmt.Sprintf("%s %.1f %s", mi.AudioFormat, mi.AudioChannels, mi.AudioLanguages))
		w.line("Subtitles", mi.Subtitles)
	}
	w.line("Artwork", fmt.Sprintf("%d images", len(m.library.Images(f.ServerID, f.ImdbID))))
	w.paragraph(mv.Overview)
	return w.String()
}

func (m Model) renderWanted() string {
	rows := make([]string, 0, len(m.data.wanted))
	for _, mv := range m.data.wanted {
		availability := "not available"
		if mv.IsAvailable {
			availability = "available"
		}
		rows = append(rows, fmt.Sprintf("%s · %s · %s", movieTitle(mv), mv.Status, availability))
	}

	detail := ""
	if sel := m.selected[ViewWanted]; sel < len(m.data.wanted) {
		mv := m.data.wanted[sel]
		w := m.newDetailWriter(m.detailWidth())
		w.heading(movieTitle(mv))
		w.line("Server", m.serverName(mv.ServerID))
		w.styled("Status", mv.Status, w.styles.WarningText)
		w.line("In cinemas", mv.InCinemas)
		w.line("Release", mv.PhysicalRelease)
		w.line("Monitored", yesNo(mv.Monitored))
		w.line("Availability", mv.MinimumAvailability)
		w.paragraph(mv.Overview)
		detail = w.String()
	}
	return m.renderSplit("Wanted", rows, "Nothing missing.", "Movie", detail)
}
