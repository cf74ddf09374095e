package api

import "github.com/yedamo-ai/yedamo/pkg/models"

// BasicRequest is the body of POST /saju/basic. Clients send either the
// flat birthDate/birthTime form or a structured birth_info object.
type BasicRequest struct {
	Name      string     `json:"name"`
	BirthDate string     `json:"birthDate"`
	BirthTime string     `json:"birthTime"`
	IsLunar   bool       `json:"isLunar"`
	Gender    string     `json:"gender"`
	Timezone  string     `json:"timezone"`
	CacheKey  string     `json:"cacheKey"`
	BirthInfo *BirthInfo `json:"birth_info"`
}

// BirthInfo is the structured birth form.
type BirthInfo struct {
	Year     int    `json:"year"`
	Month    int    `json:"month"`
	Day      int    `json:"day"`
	Hour     int    `json:"hour"`
	IsLunar  bool   `json:"isLunar"`
	Gender   string `json:"gender"`
	Region   string `json:"region"`
	Timezone string `json:"timezone"`
}

// SajuResponse is returned by POST /saju/basic and GET /api/saju/:cacheKey.
type SajuResponse struct {
	CacheKey       string   `json:"cache_key"`
	Cached         bool     `json:"cached"`
	NeedsRefresh   bool     `json:"needsRefresh"`
	CacheAvailable *bool    `json:"cache_available,omitempty"`
	Success        bool     `json:"success"`
	Data           SajuData `json:"data"`
	Timestamp      int64    `json:"timestamp"`
}

type SajuData struct {
	Name           string                   `json:"name"`
	BirthInfo      models.BirthInfo         `json:"birthInfo"`
	TranslatedData models.ComputationResult `json:"translatedData"`
	WuxingAnalysis []models.StrengthEntry   `json:"wuxingAnalysis"`
}

// ConsultationRequest is the body of POST /saju/consultation.
type ConsultationRequest struct {
	CacheKey string `json:"cache_key"`
	Question string `json:"question"`
}

type ConsultationResponse struct {
	AgentType    string `json:"agent_type"`
	Consultation string `json:"consultation"`
	Source       string `json:"source"`
	Category     string `json:"category"`
	CacheKey     string `json:"cache_key"`
	Question     string `json:"question"`
	Timestamp    string `json:"timestamp"`
}

type HealthResponse struct {
	Status         string `json:"status"`
	Timestamp      string `json:"timestamp"`
	CacheConnected bool   `json:"cache_connected"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
