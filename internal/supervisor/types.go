package supervisor

// envelope is the supervisor API response wrapper.
// Every endpoint returns {"result": "ok"|"error", "data": {...}}.
type envelope[T any] struct {
	Result  string `json:"result"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data"`
}

// OSInfo describes the host operating system as reported by the
// supervisor's /os/info endpoint. Fields the panel does not display are
// omitted; the record is treated as opaque beyond presentation.
type OSInfo struct {
	Version         string `json:"version"`
	VersionLatest   string `json:"version_latest"`
	UpdateAvailable bool   `json:"update_available"`
	Board           string `json:"board"`
	DataDisk        string `json:"data_disk"`
}

// Meta describes the supervisor itself as reported by /supervisor/info.
type Meta struct {
	Version         string `json:"version"`
	VersionLatest   string `json:"version_latest"`
	UpdateAvailable bool   `json:"update_available"`
	Channel         string `json:"channel"`
	Arch            string `json:"arch"`
	Healthy         bool   `json:"healthy"`
	Supported       bool   `json:"supported"`
}

// Info is the joint result of the OS-info and supervisor-info fetches.
// Both fields are always populated together; a partial pair is never
// returned.
type Info struct {
	OS   OSInfo `json:"os"`
	Meta Meta   `json:"supervisor"`
}
