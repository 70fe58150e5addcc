package runner

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestArgv(t *testing.T) {
	req := ExecutionRequest{
		DitaHome: "/opt/dita-ot",
		Input:    "/work/my docs/guide.ditamap",
		Format:   "html5",
		Output:   "/work/out",
		Temp:     "/work/tmp",
		Filter:   "/work/prod.ditaval",
		Params: map[string]string{
			"processing-mode": "strict",
			"args.rellinks":   "all",
		},
	}

	got := req.argv(true)
	want := []string{
		"--input", "/work/my docs/guide.ditamap",
		"--format", "html5",
		"--output", "/work/out",
		"--temp", "/work/tmp",
		"--filter", "/work/prod.ditaval",
		"-v",
		"-Dargs.rellinks=all",
		"-Dprocessing-mode=strict",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("argv = %q, want %q", got, want)
	}
}

// Path values stay discrete elements so spaces never need quoting, and
// the optional filter is omitted when unset.
func TestArgvNoFilterNoVerbose(t *testing.T) {
	req := ExecutionRequest{
		Input:  "a.ditamap",
		Format: "pdf",
		Output: "out",
		Temp:   "tmp",
	}
	got := req.argv(false)
	want := []string{"--input", "a.ditamap", "--format", "pdf", "--output", "out", "--temp", "tmp"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("argv = %q, want %q", got, want)
	}
}

func TestValidate(t *testing.T) {
	valid := ExecutionRequest{
		DitaHome: "/opt/dita-ot",
		Input:    "a.ditamap",
		Format:   "html5",
		Output:   "out",
		Temp:     "tmp",
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid request rejected: %v", err)
	}

	for _, tt := range []struct {
		name   string
		mutate func(*ExecutionRequest)
	}{
		{"missing home", func(r *ExecutionRequest) { r.DitaHome = "" }},
		{"missing input", func(r *ExecutionRequest) { r.Input = "" }},
		{"missing format", func(r *ExecutionRequest) { r.Format = "" }},
		{"missing output", func(r *ExecutionRequest) { r.Output = "" }},
		{"missing temp", func(r *ExecutionRequest) { r.Temp = "" }},
	} {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			if err := req.Validate(); err == nil {
				t.Error("invalid request accepted")
			}
		})
	}
}

func TestLauncherFor(t *testing.T) {
	if got := launcherFor("windows"); got != filepath.Join("bin", "dita.bat") {
		t.Errorf("windows launcher = %q", got)
	}
	for _, goos := range []string{"linux", "darwin", "freebsd"} {
		if got := launcherFor(goos); got != filepath.Join("bin", "dita") {
			t.Errorf("%s launcher = %q", goos, got)
		}
	}
}

func TestEffectiveTimeout(t *testing.T) {
	if got := (ExecutionRequest{}).effectiveTimeout(); got != defaultTimeout {
		t.Errorf("zero timeout = %v, want default %v", got, defaultTimeout)
	}
}
