package maven

import "testing"

func TestValidateID(t *testing.T) {
	valid := []string{"a", "1", "1a", "1-a2-2.2", "linux-x86_64", "_"}
	for _, v := range valid {
		if err := ValidateID(v); err != nil {
			t.Errorf("ValidateID(%q) = %v, want nil", v, err)
		}
	}

	invalid := []string{"", ".", "-", ".1", "-1", "1.", "1-", "a..b", "a--b", "thisidentifierexceedstwentychars"}
	for _, v := range invalid {
		err := ValidateID(v)
		if err == nil {
			t.Errorf("ValidateID(%q) = nil, want error", v)
			continue
		}
		if err.Message != "Id not valid!" {
			t.Errorf("ValidateID(%q) message = %q", v, err.Message)
		}
		if err.Value != v {
			t.Errorf("ValidateID(%q) value = %q", v, err.Value)
		}
	}
}

func TestValidateVersion(t *testing.T) {
	valid := []string{"2.2", "1", "4.1.2.RELEASE", "4.1.2-SNAPSHOT", "SNAPSHOT"}
	for _, v := range valid {
		if err := ValidateVersion(v); err != nil {
			t.Errorf("ValidateVersion(%q) = %v, want nil", v, err)
		}
	}

	invalid := []string{"", ".", "-", ".1", "-1", "1.", "1-", "-SNAPSHOT"}
	for _, v := range invalid {
		err := ValidateVersion(v)
		if err == nil {
			t.Errorf("ValidateVersion(%q) = nil, want error", v)
			continue
		}
		if err.Message != "Version not valid!" {
			t.Errorf("ValidateVersion(%q) message = %q", v, err.Message)
		}
	}
}

func TestValidateGroup(t *testing.T) {
	if err := ValidateGroup([]string{"com", "example", "lib_1"}); err != nil {
		t.Errorf("ValidateGroup = %v, want nil", err)
	}

	err := ValidateGroup(nil)
	if err == nil {
		t.Fatal("ValidateGroup(nil) = nil, want error")
	}
	if err.Message != "GroupId empty!" {
		t.Errorf("empty group message = %q", err.Message)
	}

	err = ValidateGroup([]string{"com", ""})
	if err == nil {
		t.Fatal("ValidateGroup with empty segment = nil, want error")
	}
	if err.Message != "GroupId invalid!" {
		t.Errorf("invalid segment message = %q", err.Message)
	}
	if err.Value != "[com, ]" {
		t.Errorf("invalid segment value = %q", err.Value)
	}
}

func TestValidateArtifactFilename(t *testing.T) {
	valid := []struct {
		filename, version, artifactID string
	}{
		{"b-1.jar", "1", "b"},
		{"b-1.jar.md5", "1", "b"},
		{"b-1.jar.sha1", "1", "b"},
		{"b-1.jar.asc", "1", "b"},
		{"b-1-sources.jar", "1", "b"},
		{"b-1-javadoc.jar", "1", "b"},
		{"b-1-jdk11.jar", "1", "b"},
		{"b-1.0.2-20201023.142512-1.jar", "1.0.2-SNAPSHOT", "b"},
		{"b-4.1.53-20201112.210114-1-linux-x86_64.jar", "4.1.53-SNAPSHOT", "b"},
	}
	for _, tt := range valid {
		if err := ValidateArtifactFilename(tt.filename, tt.version, tt.artifactID); err != nil {
			t.Errorf("ValidateArtifactFilename(%q, %q, %q) = %v, want nil", tt.filename, tt.version, tt.artifactID, err)
		}
	}

	invalid := []struct {
		filename, version, artifactID string
	}{
		{"b-2.jar", "1", "b"},                     // version mismatch
		{"b-1-SNAPSHOT.jar", "1-SNAPSHOT", "b"},   // literal -SNAPSHOT instead of marker
		{"c-1.jar", "1", "b"},                     // artifactId mismatch
		{"b-1", "1", "b"},                         // no extension
		{"b-1.jar.sha1.md5", "1", "b"},            // too many extensions
		{"b-1.0.2-20201023.1425-1.jar", "1.0.2-SNAPSHOT", "b"}, // short timestamp
	}
	for _, tt := range invalid {
		err := ValidateArtifactFilename(tt.filename, tt.version, tt.artifactID)
		if err == nil {
			t.Errorf("ValidateArtifactFilename(%q, %q, %q) = nil, want error", tt.filename, tt.version, tt.artifactID)
			continue
		}
		if err.Message != "Artifact-Name is not valid!" {
			t.Errorf("message = %q", err.Message)
		}
	}
}

func TestValidateArtifactPath(t *testing.T) {
	valid := []string{
		"/a/b/1/b-1.jar",
		"/a/b/1/b-1.jar.md5",
		"/a/b/1/b-1.jar.sha1",
		"/a/b/1/b-1.jar.asc",
		"/a/b/1/b-1-sources.jar",
		"/a/b/1/b-1-javadoc.jar",
		"/a/b/1/b-1-jdk11.jar",
		"/foo/bar/1.0.2-SNAPSHOT/bar-1.0.2-20201023.142512-1.jar",
	}
	for _, p := range valid {
		if err := ValidateArtifactPath(p); err != nil {
			t.Errorf("ValidateArtifactPath(%q) = %v, want nil", p, err)
		}
	}

	invalid := []string{
		"/a/1/a-1.jar",                      // no groupId segments
		"/a/b/1/b-2.jar",                    // filename version mismatch
		"/a/b/1-SNAPSHOT/b-1-SNAPSHOT.jar",  // literal snapshot filename
		"/a/b",                              // too short
		"",                                  // empty
	}
	for _, p := range invalid {
		err := ValidateArtifactPath(p)
		if err == nil {
			t.Errorf("ValidateArtifactPath(%q) = nil, want error", p)
			continue
		}
		if err.Message != "Artifact-Path is not valid!" {
			t.Errorf("message = %q", err.Message)
		}
		if err.Value != p {
			t.Errorf("value = %q, want %q", err.Value, p)
		}
	}
}

func TestValidateMetadataPath(t *testing.T) {
	valid := []string{
		"/a/b/maven-metadata.xml",
		"/a/b/1-SNAPSHOT/maven-metadata.xml",
		"/a/b/maven-metadata.xml.md5",
		"/a/b/maven-metadata.xml.sha1",
		"/a/b/maven-metadata.xml.asc",
	}
	for _, p := range valid {
		if err := ValidateMetadataPath(p); err != nil {
			t.Errorf("ValidateMetadataPath(%q) = %v, want nil", p, err)
		}
		if !IsMetadataPath(p) {
			t.Errorf("IsMetadataPath(%q) = false, want true", p)
		}
	}

	invalid := []string{
		"/maven-metadata.xml",
		"/a/maven-metadata.xml",
		"/a/b/maven-megadata.xml",
		"/bla/foo/1.0.1/bla-1.0.1.pom",
	}
	for _, p := range invalid {
		err := ValidateMetadataPath(p)
		if err == nil {
			t.Errorf("ValidateMetadataPath(%q) = nil, want error", p)
			continue
		}
		if err.Message != "Not a valid metadata-path!" {
			t.Errorf("message = %q", err.Message)
		}
		if IsMetadataPath(p) {
			t.Errorf("IsMetadataPath(%q) = true, want false", p)
		}
	}
}

func TestFirstFailureOrder(t *testing.T) {
	// The group check runs before the filename check, so a path that is bad
	// on both counts reports through the group sub-check first.
	parts := []string{}
	if err := ValidateGroup(parts); err == nil || err.Message != "GroupId empty!" {
		t.Fatalf("got %v, want GroupId empty", err)
	}
}
