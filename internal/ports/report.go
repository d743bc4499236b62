package ports

import "time"

// Count is one entry of a truncated top-N view, ordered by count descending.
type Count struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// RankedUser is one row of a top-N entity ranking.
type RankedUser struct {
	UserID int64   `json:"user_id"`
	Name   string  `json:"name"`
	Value  float64 `json:"value"` // ratio or raw count, per ranking.by_ratio
	Ratio  float64 `json:"ratio"`
	Count  int     `json:"count"`
}

// Report bundles the outcome of one analysis run, as stored and exported.
type Report struct {
	Global *GlobalStats `json:"global"`
	Users  []*UserStats `json:"users"` // first-observed order
	Census *WordCensus  `json:"census,omitempty"`
}

// GlobalStats is the group-wide statistics record.
type GlobalStats struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	FirstDay    string    `json:"first_day,omitempty"`
	LastDay     string    `json:"last_day,omitempty"`
	UserCount   int       `json:"user_count"`

	MessageCount           int `json:"message_count"`
	WordCount              int `json:"word_count"`
	LetterCount            int `json:"letter_count"`
	MediaCount             int `json:"media_count"`
	LoudMessageCount       int `json:"loud_message_count"`
	LoudWordCount          int `json:"loud_word_count"`
	CurseCount             int `json:"curse_count"`
	ReactionsReceivedCount int `json:"reactions_received_count"`

	Activeness      float64  `json:"activeness"`
	MediaRatio      float64  `json:"media_ratio"`
	Loudness        float64  `json:"loudness"`
	LoudWordRatio   float64  `json:"loud_word_ratio"`
	Naughtiness     float64  `json:"naughtiness"`
	WordsPerMessage float64  `json:"words_per_message"`
	MessagesPerDay  float64  `json:"messages_per_day"`
	Sentiment       *float64 `json:"sentiment,omitempty"`

	TopWords      []Count            `json:"top_words"`
	TopCategories map[string][]Count `json:"top_categories"`
	TopReactions  []Count            `json:"top_reactions"`
	TopDays       []Count            `json:"top_days"`

	TopActiveUsers   []RankedUser `json:"top_active_users"`
	TopMediaUsers    []RankedUser `json:"top_media_users"`
	TopLoudUsers     []RankedUser `json:"top_loud_users"`
	TopCursingUsers  []RankedUser `json:"top_cursing_users"`
	TopReactingUsers []RankedUser `json:"top_reacting_users"`
	TopReactedUsers  []RankedUser `json:"top_reacted_users"`
}

// UserStats is the exported record of a single entity.
type UserStats struct {
	UserID  int64  `json:"user_id"`
	Name    string `json:"name"`
	Outlier bool   `json:"outlier"`

	MessageCount           int `json:"message_count"`
	WordCount              int `json:"word_count"`
	LetterCount            int `json:"letter_count"`
	MediaCount             int `json:"media_count"`
	LoudMessageCount       int `json:"loud_message_count"`
	LoudWordCount          int `json:"loud_word_count"`
	CurseCount             int `json:"curse_count"`
	ReactionsGivenCount    int `json:"reactions_given_count"`
	ReactionsReceivedCount int `json:"reactions_received_count"`
	ActiveDays             int `json:"active_days"`

	Activeness      float64  `json:"activeness"`
	MediaRatio      float64  `json:"media_ratio"`
	Loudness        float64  `json:"loudness"`
	LoudWordRatio   float64  `json:"loud_word_ratio"`
	Naughtiness     float64  `json:"naughtiness"`
	RGRatio         float64  `json:"rg_ratio"`
	RRRatio         float64  `json:"rr_ratio"`
	WordsPerMessage float64  `json:"words_per_message"`
	MessagesPerDay  float64  `json:"messages_per_day"`
	Sentiment       *float64 `json:"sentiment,omitempty"`

	TopActiveDays        []Count            `json:"top_active_days"`
	TopCategoryWords     map[string][]Count `json:"top_category_words"`
	TopWords             []Count            `json:"top_words"`
	TopReactionsGiven    []Count            `json:"top_reactions_given"`
	TopReactionsReceived []Count            `json:"top_reactions_received"`
}

// WordCensus is the whole-chat word dump in four views.
type WordCensus struct {
	SensitiveByFrequency    []Count `json:"sensitive_by_frequency"`
	SensitiveAlphabetical   []Count `json:"sensitive_alphabetical"`
	InsensitiveByFrequency  []Count `json:"insensitive_by_frequency"`
	InsensitiveAlphabetical []Count `json:"insensitive_alphabetical"`
}
