// SPDX-FileCopyrightText: 2025 fast-tag contributors
// SPDX-License-Identifier: Apache-2.0

package fasttag

import "time"

// Health is the service health report.
type Health struct {
	Status   string `json:"status"`
	Service  string `json:"service"`
	Database string `json:"database"`
}

// User is the authenticated account the token belongs to.
type User struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	AvatarURL  string    `json:"avatar_url"`
	Provider   string    `json:"provider"`
	ProviderID string    `json:"provider_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Project is a fast-tag project.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Task is a labeling task within a project.  ResolvedResourceURL is a
// fetchable form of ResourceURL, presigned by the service when the resource
// lives in project storage.
type Task struct {
	ID                  string     `json:"id"`
	ProjectID           string     `json:"project_id"`
	Name                string     `json:"name"`
	ResourceURL         string     `json:"resource_url"`
	Status              string     `json:"status"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
	CompletedAt         *time.Time `json:"completed_at"`
	ResolvedResourceURL string     `json:"resolved_resource_url"`
}

// The service wraps list and singleton responses in envelopes keyed by the
// resource name.

type userEnvelope struct {
	User User `json:"user"`
}

type projectsEnvelope struct {
	Projects []Project `json:"projects"`
}

type objectsEnvelope struct {
	Objects []string `json:"objects"`
}

type presignEnvelope struct {
	DownloadURL *string `json:"download_url"`
}

type tasksEnvelope struct {
	Tasks []Task `json:"tasks"`
}
