package radarr

import (
	"time"
)

const radarrTimestampLayout = "2006-01-02 15:04:05"

// Movie mirrors an entry of the /movie endpoint.
type Movie struct {
	ID                  int        `json:"id"`
	Title               string     `json:"title"`
	SortTitle           string     `json:"sortTitle"`
	SizeOnDisk          int64      `json:"sizeOnDisk"`
	Status              string     `json:"status"`
	Overview            string     `json:"overview"`
	InCinemas           string     `json:"inCinemas"`
	PhysicalRelease     string     `json:"physicalRelease,omitempty"`
	Images              []Image    `json:"images"`
	Website             string     `json:"website"`
	Downloaded          bool       `json:"downloaded"`
	Year                int        `json:"year"`
	HasFile             bool       `json:"hasFile"`
	YouTubeTrailerID    string     `json:"youTubeTrailerId"`
	Studio              string     `json:"studio"`
	Path                string     `json:"path"`
	Monitored           bool       `json:"monitored"`
	MinimumAvailability string     `json:"minimumAvailability"`
	IsAvailable         bool       `json:"isAvailable"`
	Runtime             int        `json:"runtime"`
	ImdbID              string     `json:"imdbId"`
	TmdbID              int        `json:"tmdbId"`
	TitleSlug           string     `json:"titleSlug"`
	Genres              []string   `json:"genres"`
	Added               string     `json:"added"`
	Ratings             Ratings    `json:"ratings"`
	MovieFile           *MovieFile `json:"movieFile,omitempty"`
	QualityProfileID    int        `json:"qualityProfileId"`
	AlternativeTitles   []AltTitle `json:"alternativeTitles,omitempty"`
}

// AltTitle is an alternative title of a movie.
type AltTitle struct {
	Title    string `json:"title"`
	Language string `json:"language"`
}

// Image references poster or fanart artwork.
type Image struct {
	CoverType string `json:"coverType"`
	URL       string `json:"url"`
}

// Ratings carries the aggregate rating of a movie.
type Ratings struct {
	Votes int     `json:"votes"`
	Value float64 `json:"value"`
}

// MovieFile describes the downloaded file of a movie.
type MovieFile struct {
	ID           int         `json:"id"`
	MovieID      int         `json:"movieId"`
	RelativePath string      `json:"relativePath"`
	Size         int64       `json:"size"`
	DateAdded    string      `json:"dateAdded"`
	SceneName    string      `json:"sceneName"`
	Quality      FileQuality `json:"quality"`
	Edition      string      `json:"edition"`
	MediaInfo    MediaInfo   `json:"mediaInfo"`
}

// ParsedDateAdded returns DateAdded as time.Time when possible.
func (f MovieFile) ParsedDateAdded() time.Time {
	return parseTime(f.DateAdded)
}

// FileQuality wraps the quality descriptor of a file or download.
type FileQuality struct {
	Quality  QualityInfo `json:"quality"`
	Revision Revision    `json:"revision"`
}

// QualityInfo names a quality definition.
type QualityInfo struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Source     string `json:"source"`
	Resolution string `json:"resolution"`
	Modifier   string `json:"modifier"`
}

// Revision is the release revision of a file.
type Revision struct {
	Version int `json:"version"`
	Real    int `json:"real"`
}

// MediaInfo is the subset of media details shown on the detail screen.
type MediaInfo struct {
	ContainerFormat string  `json:"containerFormat"`
	VideoFormat     string  `json:"videoFormat"`
	VideoBitDepth   int     `json:"videoBitDepth"`
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	AudioFormat     string  `json:"audioFormat"`
	AudioChannels   float64 `json:"audioChannels"`
	AudioLanguages  string  `json:"audioLanguages"`
	Subtitles       string  `json:"subtitles"`
	RunTime         string  `json:"runTime"`
}

// QueueItem mirrors an entry of the /queue endpoint.
type QueueItem struct {
	ID                      int             `json:"id"`
	Movie                   *Movie          `json:"movie,omitempty"`
	Quality                 FileQuality     `json:"quality"`
	Size                    float64         `json:"size"`
	Title                   string          `json:"title"`
	Sizeleft                float64         `json:"sizeleft"`
	Timeleft                string          `json:"timeleft"`
	EstimatedCompletionTime string          `json:"estimatedCompletionTime"`
	Status                  string          `json:"status"`
	TrackedDownloadStatus   string          `json:"trackedDownloadStatus"`
	StatusMessages          []StatusMessage `json:"statusMessages"`
	DownloadID              string          `json:"downloadId"`
	Protocol                string          `json:"protocol"`
}

// Progress returns the downloaded fraction in [0,1].
func (q QueueItem) Progress() float64 {
	if q.Size <= 0 {
		return 0
	}
	done := (q.Size - q.Sizeleft) / q.Size
	switch {
	case done < 0:
		return 0
	case done > 1:
		return 1
	default:
		return done
	}
}

// StatusMessage is a download client message attached to a queue item.
type StatusMessage struct {
	Title    string   `json:"title"`
	Messages []string `json:"messages"`
}

// queuePage is the paged /queue response shape of newer API versions.
type queuePage struct {
	Records []QueueItem `json:"records"`
}

// WantedPage mirrors /wanted/missing.
type WantedPage struct {
	Page          int     `json:"page"`
	PageSize      int     `json:"pageSize"`
	SortKey       string  `json:"sortKey"`
	SortDirection string  `json:"sortDirection"`
	TotalRecords  int     `json:"totalRecords"`
	Records       []Movie `json:"records"`
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	if t, err := time.ParseInLocation(radarrTimestampLayout, value, time.Local); err == nil {
		return t
	}
	return time.Time{}
}
