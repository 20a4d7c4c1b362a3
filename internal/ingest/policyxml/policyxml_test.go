package policyxml

import (
	"os"
	"path/filepath"
	"testing"
)

const samplePolicy = `<?xml version="1.0" encoding="UTF-8"?>
<policy version="0.2.0">
  <enclaves>
    <enclave path="/enclave1">
      <profiles>
        <profile ns="/a" node="src">
          <topics publish="ALLOW">
            <topic>t</topic>
          </topics>
        </profile>
        <profile ns="/b" node="sink">
          <topics subscribe="ALLOW">
            <topic>/a/t</topic>
          </topics>
        </profile>
      </profiles>
    </enclave>
  </enclaves>
</policy>
`

func writeTempPolicy(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := writeTempPolicy(t, dir, "policy.xml", samplePolicy)

	enclaves, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(enclaves) != 1 {
		t.Fatalf("got %d enclaves, want 1", len(enclaves))
	}
	if enclaves[0].Path != "/enclave1" {
		t.Errorf("got enclave path %q", enclaves[0].Path)
	}
	if len(enclaves[0].Profiles) != 2 {
		t.Fatalf("got %d profiles, want 2", len(enclaves[0].Profiles))
	}

	srcProfile := enclaves[0].Profiles[0]
	if srcProfile.Namespace != "/a" || srcProfile.Node != "src" {
		t.Errorf("unexpected profile identity: %+v", srcProfile)
	}
	if len(srcProfile.Expressions) != 1 {
		t.Fatalf("got %d expressions, want 1", len(srcProfile.Expressions))
	}
	expr := srcProfile.Expressions[0]
	if expr.Kind != "topics" || expr.Permission != "publish" || expr.Decision != "ALLOW" {
		t.Errorf("unexpected expression: %+v", expr)
	}
	if len(expr.Elements) != 1 || expr.Elements[0] != "t" {
		t.Errorf("unexpected elements: %v", expr.Elements)
	}
}

func TestWalkFindsXMLFiles(t *testing.T) {
	dir := t.TempDir()
	writeTempPolicy(t, dir, "policy.xml", samplePolicy)
	writeTempPolicy(t, dir, "notes.txt", "ignore me")

	files, err := Walk(dir)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("got %d files, want 1: %v", len(files), files)
	}
}

func TestBuildFromDirectoryReportsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	writeTempPolicy(t, dir, "good.xml", samplePolicy)
	writeTempPolicy(t, dir, "bad.xml", "<policy><enclaves><enclave path=\"x\">")

	enclaves, errs := BuildFromDirectory(dir)
	if len(enclaves) == 0 {
		t.Error("expected the well-formed file to still be parsed")
	}
	if len(errs) == 0 {
		t.Error("expected a recoverable error for the malformed file")
	}
}
