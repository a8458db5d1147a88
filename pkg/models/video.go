package models

// shortMaxSeconds is the duration boundary between short and long-form
// videos. The partition depends on duration only, never on provider
// metadata.
const shortMaxSeconds = 60

// Video is a single video result with its engagement statistics.
type Video struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Channel   string `json:"channel"`
	Published string `json:"published"`
	URL       string `json:"url"`
	Views     int64  `json:"views"`
	Likes     int64  `json:"likes"`
	Comments  int64  `json:"comments"`
	Duration  string `json:"duration"`
	IsShort   bool   `json:"isShort"`
}

// IsShortDuration reports whether a duration in seconds falls in the
// short-form class.
func IsShortDuration(seconds int) bool {
	return seconds <= shortMaxSeconds
}

// VideoSummary is the aggregated video signal for one entity and
// window. Every video is counted in exactly one of the short/long
// groups.
type VideoSummary struct {
	Videos           []Video `json:"videos"`
	TotalViews       int64   `json:"totalViews"`
	TotalLikes       int64   `json:"totalLikes"`
	TotalComments    int64   `json:"totalComments"`
	ShortsViews      int64   `json:"shortsViews"`
	ShortsLikes      int64   `json:"shortsLikes"`
	ShortsComments   int64   `json:"shortsComments"`
	LongViews        int64   `json:"longViews"`
	LongLikes        int64   `json:"longLikes"`
	LongComments     int64   `json:"longComments"`
	ShortsCount      int     `json:"shortsCount"`
	LongCount        int     `json:"longCount"`
	AvgViewsPerVideo int64   `json:"avgViewsPerVideo"`
	OfficialChannel  string  `json:"officialChannel,omitempty"`
	FromCache        bool    `json:"fromCache"`
	Error            string  `json:"error,omitempty"`
}

// ComputeVideoAggregates rebuilds every aggregate field from the video
// list. Used on both the fetch path and the cache post-filter path so
// the two always agree.
func ComputeVideoAggregates(videos []Video) VideoSummary {
	s := VideoSummary{Videos: videos}
	if videos == nil {
		s.Videos = []Video{}
	}

	for _, v := range videos {
		s.TotalViews += v.Views
		s.TotalLikes += v.Likes
		s.TotalComments += v.Comments

		if v.IsShort {
			s.ShortsCount++
			s.ShortsViews += v.Views
			s.ShortsLikes += v.Likes
			s.ShortsComments += v.Comments
		} else {
			s.LongCount++
			s.LongViews += v.Views
			s.LongLikes += v.Likes
			s.LongComments += v.Comments
		}
	}

	if len(videos) > 0 {
		s.AvgViewsPerVideo = s.TotalViews / int64(len(videos))
	}

	return s
}
