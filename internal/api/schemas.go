package api

import (
	"time"

	"github.com/danlitvak/tool-cliptrim/internal/jobs"
	"github.com/danlitvak/tool-cliptrim/internal/library"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	UptimeS int64  `json:"uptime_s"`
}

type StatusResponse struct {
	State         string `json:"state"`
	ClipsTotal    int    `json:"clips_total"`
	ClipsDone     int    `json:"clips_done"`
	JobsRunning   int    `json:"jobs_running"`
	WorkingFolder string `json:"working_folder"`
}

type ClipResponse struct {
	ID           string `json:"id"`
	OriginalName string `json:"original_name"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
	SegmentCount int    `json:"segment_count,omitempty"`
}

type ClipsResponse struct {
	Clips []ClipResponse `json:"clips"`
}

type SegmentResponse struct {
	ID      string `json:"id"`
	ClipID  string `json:"clip_id"`
	Index   int    `json:"idx"`
	StartMs int64  `json:"start_ms"`
	EndMs   int64  `json:"end_ms"`
	Label   string `json:"label,omitempty"`
}

type SegmentsResponse struct {
	Segments []SegmentResponse `json:"segments"`
}

type AddSegmentRequest struct {
	StartMs int64  `json:"start_ms"`
	EndMs   int64  `json:"end_ms"`
	Label   string `json:"label,omitempty"`
}

type UpdateLabelRequest struct {
	Label string `json:"label"`
}

type ExportResponse struct {
	JobID string `json:"job_id"`
}

type JobResponse struct {
	ID             string `json:"id"`
	ClipName       string `json:"clip_name"`
	Status         string `json:"status"`
	CurrentSegment int    `json:"current_segment"`
	TotalSegments  int    `json:"total_segments"`
	Percent        int    `json:"percent"`
	Error          string `json:"error,omitempty"`
}

type JobsResponse struct {
	Jobs []JobResponse `json:"jobs"`
}

func ClipToResponse(c *library.Clip) ClipResponse {
	return ClipResponse{
		ID:           c.ID,
		OriginalName: c.OriginalName,
		Status:       c.Status,
		CreatedAt:    c.CreatedAt.Format(time.RFC3339),
	}
}

func SegmentToResponse(s *library.Segment) SegmentResponse {
	return SegmentResponse{
		ID:      s.ID,
		ClipID:  s.ClipID,
		Index:   s.Index,
		StartMs: s.StartMs,
		EndMs:   s.EndMs,
		Label:   s.Label,
	}
}

func JobToResponse(j jobs.ExportJob) JobResponse {
	return JobResponse{
		ID:             j.ID,
		ClipName:       j.ClipName,
		Status:         string(j.Status),
		CurrentSegment: j.CurrentSegment,
		TotalSegments:  j.TotalSegments,
		Percent:        j.Percent(),
		Error:          j.Error,
	}
}
