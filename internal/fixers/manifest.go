package fixers

import (
	"fmt"
	"strconv"
	"strings"

	"mend/internal/catalog"
	"mend/internal/check"
	"mend/internal/finding"
	"mend/internal/project"
)

// DefaultVersion is written when a manifest has no version.
const DefaultVersion = "0.1.0"

// manifestField fills name and version. License and description need a
// human and are skipped.
func manifestField(opts Options) catalog.Fixer {
	return catalog.Func("manifest-field", func(f finding.Finding, ed *project.Editor) catalog.Result {
		mustUnit(f)
		field := f.Location.Sub
		var value string
		switch field {
		case "name":
			value = ed.ProjectName()
		case "version":
			value = DefaultVersion
		case "license", "description":
			return catalog.Skipped("%s needs human input", field)
		default:
			return catalog.Skipped("unknown manifest field %q", field)
		}

		u, ok := ed.Get(opts.Manifest)
		if !ok {
			m := &project.Manifest{Dependencies: map[string]string{}}
			m.SetField(field, value)
			data, err := m.Encode()
			if err != nil {
				return catalog.Failed(err)
			}
			if err := ed.Create(opts.Manifest, project.KindManifest, data); err != nil {
				return catalog.Failed(err)
			}
			return catalog.Applied("created %s with %s = %q", opts.Manifest, field, value)
		}
		m, err := project.ParseManifest(u.Content)
		if err != nil && m == nil {
			return catalog.Failed(fmt.Errorf("%s: %w", opts.Manifest, err))
		}
		if strings.TrimSpace(m.Field(field)) != "" {
			return catalog.Skipped("%s already set", field)
		}
		m.SetField(field, value)
		if err := ed.WriteManifest(opts.Manifest, m); err != nil {
			return catalog.Failed(err)
		}
		return catalog.Applied("set %s = %q", field, value)
	})
}

// declareImport adds an imported package to [dependencies] with any version.
func declareImport(opts Options) catalog.Fixer {
	return &manifestFixer{
		name:     "declare-import",
		manifest: opts.Manifest,
		edit: func(f finding.Finding, m *project.Manifest, ed *project.Editor) catalog.Result {
			pkg := f.Location.Sub
			if pkg == "" {
				panic(fmt.Errorf("%s on %s: missing package name", f.Signature, f.Location.Unit))
			}
			if !ed.Has(f.Location.Unit) {
				return catalog.Skipped("location no longer present")
			}
			if _, ok := m.Dependencies[pkg]; ok {
				return catalog.Skipped("%s already declared", pkg)
			}
			m.Dependencies[pkg] = "*"
			return catalog.Applied("declared dependency %s", pkg)
		},
	}
}

// descriptionFormat normalises the manifest description.
func descriptionFormat(opts Options) catalog.Fixer {
	return &manifestFixer{
		name:     "description-format",
		manifest: opts.Manifest,
		edit: func(_ finding.Finding, m *project.Manifest, _ *project.Editor) catalog.Result {
			want := check.NormalizeDescription(m.Package.Description)
			if want == "" {
				return catalog.Skipped("description is empty")
			}
			if want == m.Package.Description {
				return catalog.Skipped("description already formatted")
			}
			m.Package.Description = want
			return catalog.Applied("reformatted description")
		},
	}
}

// licenseStub creates the LICENSE file that "+ file LICENSE" licences refer
// to. Only the YEAR and COPYRIGHT HOLDER record is written.
func licenseStub(opts Options) catalog.Fixer {
	return catalog.Func("license-stub", func(f finding.Finding, ed *project.Editor) catalog.Result {
		unit := mustUnit(f)
		u, ok := ed.Get(opts.Manifest)
		if !ok {
			return catalog.Skipped("no manifest %s", opts.Manifest)
		}
		m, err := project.ParseManifest(u.Content)
		if err != nil {
			return catalog.Failed(fmt.Errorf("%s: %w", opts.Manifest, err))
		}
		if !check.NeedsLicenseFile(m.Package.License) {
			return catalog.Skipped("licence %q does not reference a file", m.Package.License)
		}
		if ed.Has(unit) {
			return catalog.Skipped("%s already present", unit)
		}
		holder := strings.Join(m.Package.Authors, ", ")
		if holder == "" {
			holder = m.Package.Name
		}
		if holder == "" {
			holder = ed.ProjectName()
		}
		body := "YEAR: " + strconv.Itoa(opts.Now().Year()) + "\nCOPYRIGHT HOLDER: " + holder + "\n"
		if err := ed.Create(unit, project.KindOther, []byte(body)); err != nil {
			return catalog.Failed(err)
		}
		return catalog.Applied("created %s", unit)
	})
}
