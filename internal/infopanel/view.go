package infopanel

import (
	"fmt"
	"strings"

	"github.com/havenhome/haven-core/internal/extensions"
	"github.com/havenhome/haven-core/internal/supervisor"
)

// disclaimer is the fixed liability paragraph at the bottom of the panel.
const disclaimer = "Haven is distributed in the hope that it will be useful, " +
	"but WITHOUT ANY WARRANTY; without even the implied warranty of " +
	"MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the GNU " +
	"General Public License for more details."

// copyrightLine is the fixed attribution under the version text.
const copyrightLine = "Released under the GNU General Public License v3"

// LinkPage is one of the fixed documentation links on the panel.
type LinkPage struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	URL       string `json:"url"`
	IconPath  string `json:"icon_path"`
	IconColor string `json:"icon_color"`

	// External links open in a new browsing context with no referrer.
	External bool `json:"external"`

	// capability, when set, hides the page on installations lacking
	// the named host feature. None of the shipped pages set it.
	capability string
}

// linkPages is the panel's fixed link list. Order is part of the
// contract: thanks, feature request, bug report, help, license.
var linkPages = []LinkPage{
	{
		Name:      "thanks",
		Path:      "/thanks",
		IconPath:  "mdi:heart",
		IconColor: "#ff4081",
		External:  true,
	},
	{
		Name:      "feature_request",
		Path:      "/feature-requests",
		IconPath:  "mdi:comment-quote",
		IconColor: "#fec93d",
		External:  true,
	},
	{
		Name:      "bug_report",
		Path:      "/issues",
		IconPath:  "mdi:bug",
		IconColor: "#f44336",
		External:  true,
	},
	{
		Name:      "help",
		Path:      "/community",
		IconPath:  "mdi:help-circle",
		IconColor: "#4caf50",
		External:  true,
	},
	{
		Name:      "license",
		Path:      "/license",
		IconPath:  "mdi:file-document",
		IconColor: "#78909c",
		External:  true,
	},
}

// Header is the panel's logo/title block.
type Header struct {
	Name    string `json:"name"`
	Tagline string `json:"tagline"`
}

// VersionInfo is the version/copyright block.
type VersionInfo struct {
	Core      string `json:"core"`
	Panel     string `json:"panel"`
	BuildType string `json:"build_type"`
	Line      string `json:"line"`
	Copyright string `json:"copyright"`
}

// ViewModel is the complete render state of the Info panel.
type ViewModel struct {
	Header     Header             `json:"header"`
	Version    VersionInfo        `json:"version"`
	Pages      []LinkPage         `json:"pages"`
	Supervisor *supervisor.Info   `json:"supervisor,omitempty"`
	Extensions []extensions.Entry `json:"extensions"`
	Disclaimer string             `json:"disclaimer"`
}

// View builds the current view model.
//
// It is a pure function of committed panel state, the injected
// platform/build configuration and a render-time snapshot of the
// extension registry. Identical state renders identical output; no
// side effects.
func (p *Panel) View() ViewModel {
	return ViewModel{
		Header: Header{
			Name:    p.platform.Name,
			Tagline: p.platform.Tagline,
		},
		Version:    p.versionInfo(),
		Pages:      p.visiblePages(),
		Supervisor: p.SupervisorInfo(),
		Extensions: p.exts.List(),
		Disclaimer: disclaimer,
	}
}

// versionInfo assembles the version line from the three build-time strings.
func (p *Panel) versionInfo() VersionInfo {
	return VersionInfo{
		Core:      p.build.CoreVersion,
		Panel:     p.build.PanelVersion,
		BuildType: p.build.BuildType,
		Line: fmt.Sprintf("%s %s (panel %s, %s build)",
			p.platform.Name,
			p.build.CoreVersion,
			p.build.PanelVersion,
			p.build.BuildType,
		),
		Copyright: copyrightLine,
	}
}

// visiblePages returns the fixed pages in order, resolved against the
// documentation base URL, minus any page whose capability the host
// lacks.
func (p *Panel) visiblePages() []LinkPage {
	base := strings.TrimRight(p.platform.DocsBaseURL, "/")

	pages := make([]LinkPage, 0, len(linkPages))
	for _, page := range linkPages {
		if page.capability != "" && !p.hasCapability(page.capability) {
			continue
		}
		page.URL = base + page.Path
		pages = append(pages, page)
	}
	return pages
}

// hasCapability checks the injected host capability set.
func (p *Panel) hasCapability(name string) bool {
	for _, c := range p.platform.Capabilities {
		if c == name {
			return true
		}
	}
	return false
}
