// Copyright The OpenLMS Authors.
// SPDX-License-Identifier: MIT

package models

// SessionStatus is the lifecycle state of a live session in the LMS backend.
type SessionStatus string

const (
	SessionStatusScheduled SessionStatus = "SCHEDULED"
	SessionStatusRunning   SessionStatus = "RUNNING"
	SessionStatusEnded     SessionStatus = "ENDED"
)

// SessionKindWebinar is the only session kind this service issues join URLs
// for; other kinds (uploaded video, external link) never reach the
// conferencing control plane.
const SessionKindWebinar = "webinar"

// Session is the LMS backend's view of a live session. The session UID doubles
// as the external meeting ID on the conferencing control plane.
type Session struct {
	UID             string        `json:"uid"`
	Title           string        `json:"title"`
	Kind            string        `json:"kind"`
	Status          SessionStatus `json:"status"`
	CourseUID       string        `json:"course_uid"`
	InstructorUID   string        `json:"instructor_uid"`
	InstructorName  string        `json:"instructor_name,omitempty"`
	AccessCode      string        `json:"access_code,omitempty"`
	AnyUserCanStart bool          `json:"any_user_can_start"`
	PlaybackURL     string        `json:"playback_url,omitempty"`
}

// IsWebinar reports whether the session is a live webinar session.
func (s *Session) IsWebinar() bool {
	return s.Kind == SessionKindWebinar
}

// SessionPlayback is the recording playback metadata attached to a session
// once the control plane has published the recording.
type SessionPlayback struct {
	URL      string `json:"url"`
	Format   string `json:"format,omitempty"`
	RecordID string `json:"record_id,omitempty"`
	Name     string `json:"name,omitempty"`
}

// SessionParticipant is a user enrolled in a session's course, used for the
// session-started notification fan-out.
type SessionParticipant struct {
	UserUID  string `json:"user_uid"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// BrandingSettings customize the meeting room appearance. Zero-value fields
// fall back to the system defaults.
type BrandingSettings struct {
	LogoURL      string `json:"logo_url,omitempty"`
	WelcomeText  string `json:"welcome_text,omitempty"`
	BannerText   string `json:"banner_text,omitempty"`
	PrimaryColor string `json:"primary_color,omitempty"`
}

// Merge overlays the non-empty fields of other on top of b.
func (b BrandingSettings) Merge(other BrandingSettings) BrandingSettings {
	merged := b
	if other.LogoURL != "" {
		merged.LogoURL = other.LogoURL
	}
	if other.WelcomeText != "" {
		merged.WelcomeText = other.WelcomeText
	}
	if other.BannerText != "" {
		merged.BannerText = other.BannerText
	}
	if other.PrimaryColor != "" {
		merged.PrimaryColor = other.PrimaryColor
	}
	return merged
}

// User roles as known to this service.
const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)

// User is the authenticated caller of the join endpoint. Authentication
// itself happens upstream; the gateway forwards the resolved identity.
type User struct {
	UID      string   `json:"uid"`
	FullName string   `json:"full_name"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles,omitempty"`
}

// HasRole reports whether the user carries the given role.
func (u User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user has an administrative role tier.
func (u User) IsAdmin() bool {
	return u.HasRole(RoleAdmin) || u.HasRole(RoleSuperAdmin)
}

// SessionStartedNotice is the payload for a session-started notification
// email to one participant.
type SessionStartedNotice struct {
	RecipientEmail string
	RecipientName  string
	SessionUID     string
	SessionTitle   string
	InstructorName string
	JoinPageURL    string
}
