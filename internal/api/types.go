package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Artifact describes an uploaded audio file in a transport-friendly format.
type Artifact struct {
	ID            int64  `json:"id"`
	StoredName    string `json:"storedName"`
	OriginalName  string `json:"originalName"`
	SizeBytes     int64  `json:"sizeBytes"`
	ContentType   string `json:"contentType,omitempty"`
	DetectedGenre string `json:"detectedGenre,omitempty"`
	CreatedAt     string `json:"createdAt,omitempty"`
	UpdatedAt     string `json:"updatedAt,omitempty"`
}

// Request describes a transformation request in a transport-friendly format.
type Request struct {
	ID           int64  `json:"id"`
	ArtifactID   int64  `json:"artifactId"`
	Genre        string `json:"genre"`
	Status       string `json:"status"`
	Outcome      string `json:"outcome,omitempty"`
	OutputPath   string `json:"outputPath,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
	CreatedAt    string `json:"createdAt,omitempty"`
	UpdatedAt    string `json:"updatedAt,omitempty"`
	StartedAt    string `json:"startedAt,omitempty"`
	FinishedAt   string `json:"finishedAt,omitempty"`
}

// Genre describes a selectable genre effect.
type Genre struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// LedgerStats summarizes request counts per lifecycle state.
type LedgerStats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
	Fallbacks  int `json:"fallbacks"`
}

// DependencyStatus captures availability of an external dependency.
type DependencyStatus struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Description string `json:"description"`
	Optional    bool   `json:"optional"`
	Available   bool   `json:"available"`
	Detail      string `json:"detail,omitempty"`
}

// ServiceStatus aggregates runtime information for API consumers.
type ServiceStatus struct {
	Running      bool               `json:"running"`
	PID          int                `json:"pid"`
	LedgerDBPath string             `json:"ledgerDbPath"`
	UploadDir    string             `json:"uploadDir"`
	OutputDir    string             `json:"outputDir"`
	Ledger       LedgerStats        `json:"ledger"`
	Dependencies []DependencyStatus `json:"dependencies"`
}

// ArtifactListResponse wraps a collection of artifacts.
type ArtifactListResponse struct {
	Artifacts []Artifact `json:"artifacts"`
}

// ArtifactResponse wraps a single artifact with its transformation history.
type ArtifactResponse struct {
	Artifact Artifact  `json:"artifact"`
	Requests []Request `json:"requests"`
}

// RequestResponse wraps a single transformation request.
type RequestResponse struct {
	Request  Request `json:"request"`
	CacheHit bool    `json:"cacheHit"`
}

// GenreListResponse wraps the selectable genres.
type GenreListResponse struct {
	Genres  []Genre `json:"genres"`
	Default string  `json:"default"`
}
