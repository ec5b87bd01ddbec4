package audit

import "fmt"

// AuthenticateEvent records a login attempt.
type AuthenticateEvent struct {
	UserID       string
	Login        string
	ClientIP     string
	Success      bool
	ErrorMessage string
}

func (e AuthenticateEvent) MessageID() string { return "authn" }

func (e AuthenticateEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s successfully logged in", e.Login)
	}
	msg := fmt.Sprintf("%s failed to log in", e.Login)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e AuthenticateEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e AuthenticateEvent) Facility() int { return FacilityAuthPriv }

func (e AuthenticateEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth:   {"login": e.Login, "user": e.UserID},
		SDIDClient: {"ip": e.ClientIP},
	}
}

// SignupEvent records an account creation or activation.
type SignupEvent struct {
	UserID    string
	Username  string
	ClientIP  string
	Activated bool
}

func (e SignupEvent) MessageID() string { return "signup" }

func (e SignupEvent) Message() string {
	if e.Activated {
		return fmt.Sprintf("account %s activated", e.Username)
	}
	return fmt.Sprintf("account %s created, pending activation", e.Username)
}

func (e SignupEvent) Severity() Severity { return SeverityInfo }

func (e SignupEvent) Facility() int { return FacilityAuthPriv }

func (e SignupEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDSubject: {"user": e.UserID, "username": e.Username},
		SDIDClient:  {"ip": e.ClientIP},
	}
}

// CheckEvent records a capability check against a resource.
type CheckEvent struct {
	UserID     string
	ClientIP   string
	ResourceID string
	Capability string
	Allowed    bool
}

func (e CheckEvent) MessageID() string { return "check" }

func (e CheckEvent) Message() string {
	if e.Allowed {
		return fmt.Sprintf("%s may %s %s", e.UserID, e.Capability, e.ResourceID)
	}
	return fmt.Sprintf("%s may not %s %s", e.UserID, e.Capability, e.ResourceID)
}

func (e CheckEvent) Severity() Severity {
	if e.Allowed {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e CheckEvent) Facility() int { return FacilityAuth }

func (e CheckEvent) StructuredData() map[string]map[string]string {
	allowed := "false"
	if e.Allowed {
		allowed = "true"
	}
	return map[string]map[string]string{
		SDIDSubject: {"resource": e.ResourceID},
		SDIDAction:  {"operation": e.Capability, "allowed": allowed},
		SDIDAuth:    {"user": e.UserID},
		SDIDClient:  {"ip": e.ClientIP},
	}
}

// UpdateEvent records a resource mutation.
type UpdateEvent struct {
	UserID     string
	ClientIP   string
	ResourceID string
	Version    int
}

func (e UpdateEvent) MessageID() string { return "update" }

func (e UpdateEvent) Message() string {
	return fmt.Sprintf("%s updated %s to version %d", e.UserID, e.ResourceID, e.Version)
}

func (e UpdateEvent) Severity() Severity { return SeverityInfo }

func (e UpdateEvent) Facility() int { return FacilityAuth }

func (e UpdateEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDSubject: {"resource": e.ResourceID, "version": fmt.Sprint(e.Version)},
		SDIDAction:  {"operation": "update"},
		SDIDAuth:    {"user": e.UserID},
		SDIDClient:  {"ip": e.ClientIP},
	}
}

// DeleteEvent records a resource removal.
type DeleteEvent struct {
	UserID     string
	ClientIP   string
	ResourceID string
}

func (e DeleteEvent) MessageID() string { return "delete" }

func (e DeleteEvent) Message() string {
	return fmt.Sprintf("%s deleted %s", e.UserID, e.ResourceID)
}

func (e DeleteEvent) Severity() Severity { return SeverityNotice }

func (e DeleteEvent) Facility() int { return FacilityAuth }

func (e DeleteEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDSubject: {"resource": e.ResourceID},
		SDIDAction:  {"operation": "delete"},
		SDIDAuth:    {"user": e.UserID},
		SDIDClient:  {"ip": e.ClientIP},
	}
}
