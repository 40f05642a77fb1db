// Package maven implements the path grammar of a Maven artifact repository
// and the media-type table used to tag stored artifacts. Everything in this
// package is pure: no I/O, no shared mutable state.
package maven

import (
	"regexp"
	"strings"
)

// Error describes why a value failed validation. The messages are stable;
// repository clients pattern-match on them.
type Error struct {
	Value   string
	Message string
}

func (e *Error) Error() string {
	return e.Message + " value: " + e.Value
}

const (
	// word is a single coordinate token: 1-20 word characters.
	word = `[0-9A-Za-z_]{1,20}`
	// id is word tokens joined by single '.' or '-' separators (groupId
	// segments, artifactIds, classifiers).
	id = `(?:` + word + `[.-]){0,20}` + word
)

var (
	idPattern               = regexp.MustCompile(`^` + id + `$`)
	metadataFilenamePattern = regexp.MustCompile(`^maven-metadata\.xml(?:\.` + word + `)?$`)

	// Suffix of a release artifact filename after "artifactId-version":
	// optional classifier plus 1-2 extension tokens.
	releaseSuffixPattern = regexp.MustCompile(`^(?:-` + id + `)?(?:\.` + word + `){1,2}$`)

	// Suffix of a snapshot deployment filename after "artifactId-baseVersion-":
	// the timestamp.buildNumber marker takes the place of the -SNAPSHOT alias.
	snapshotSuffixPattern = regexp.MustCompile(`^\d{8}\.\d{6}-\d{1,6}(?:-` + id + `)?(?:\.` + word + `){1,2}$`)
)

// rule is a single validation check. A nil result means the subject is valid.
type rule func() *Error

// firstFailure evaluates rules in order and returns the first failure.
func firstFailure(rules ...rule) *Error {
	for _, r := range rules {
		if err := r(); err != nil {
			return err
		}
	}
	return nil
}

// ValidateID checks a groupId segment or artifactId.
func ValidateID(v string) *Error {
	if !idPattern.MatchString(v) {
		return &Error{Value: v, Message: "Id not valid!"}
	}
	return nil
}

// ValidateVersion checks a version token, which is an identifier optionally
// suffixed with -SNAPSHOT.
func ValidateVersion(v string) *Error {
	base := strings.TrimSuffix(v, "-SNAPSHOT")
	if !idPattern.MatchString(base) {
		return &Error{Value: v, Message: "Version not valid!"}
	}
	return nil
}

// ValidateGroup checks the ordered groupId segments. Zero segments is always
// invalid; otherwise each segment is checked independently and the first
// failure wins.
func ValidateGroup(segments []string) *Error {
	value := "[" + strings.Join(segments, ", ") + "]"
	if len(segments) == 0 {
		return &Error{Value: value, Message: "GroupId empty!"}
	}
	for _, s := range segments {
		if ValidateID(s) != nil {
			return &Error{Value: value, Message: "GroupId invalid!"}
		}
	}
	return nil
}

// ValidateArtifactFilename checks that filename echoes the artifactId and
// version of its own path. For snapshot versions the filename must carry a
// timestamp.buildNumber deployment marker instead of the -SNAPSHOT alias.
func ValidateArtifactFilename(filename, version, artifactID string) *Error {
	invalid := &Error{Value: filename, Message: "Artifact-Name is not valid!"}

	if strings.HasSuffix(version, "-SNAPSHOT") {
		base := strings.TrimSuffix(version, "-SNAPSHOT")
		rest, ok := strings.CutPrefix(filename, artifactID+"-"+base+"-")
		if !ok || !snapshotSuffixPattern.MatchString(rest) {
			return invalid
		}
		return nil
	}

	rest, ok := strings.CutPrefix(filename, artifactID+"-"+version)
	if !ok || !releaseSuffixPattern.MatchString(rest) {
		return invalid
	}
	return nil
}

// ValidateArtifactPath checks a repository-relative artifact path such as
// /com/example/app/1.0.1/app-1.0.1.jar. The sub-checks run in a fixed order
// (group, artifactId, version, filename) and the first failure wins.
func ValidateArtifactPath(path string) *Error {
	invalid := &Error{Value: path, Message: "Artifact-Path is not valid!"}

	parts := strings.SplitN(path, "/", 30)
	if len(parts) < 4 {
		return invalid
	}

	filename := parts[len(parts)-1]
	version := parts[len(parts)-2]
	artifactID := parts[len(parts)-3]
	group := parts[1 : len(parts)-3]

	err := firstFailure(
		func() *Error { return ValidateGroup(group) },
		func() *Error { return ValidateID(artifactID) },
		func() *Error { return ValidateVersion(version) },
		func() *Error { return ValidateArtifactFilename(filename, version, artifactID) },
	)
	if err != nil {
		return invalid
	}
	return nil
}

// ValidateMetadataPath checks a repository-relative maven-metadata.xml path,
// optionally suffixed with a checksum or signature extension. The next-to-last
// segment may be either a version (snapshot metadata) or the artifactId.
func ValidateMetadataPath(path string) *Error {
	invalid := &Error{Value: path, Message: "Not a valid metadata-path!"}

	parts := strings.SplitN(path, "/", 20)
	if len(parts) < 4 {
		return invalid
	}

	filename := parts[len(parts)-1]
	versionOrArtifactID := parts[len(parts)-2]
	artifactIDOrGroup := parts[len(parts)-3]
	group := parts[1 : len(parts)-2]

	err := firstFailure(
		func() *Error { return ValidateGroup(group) },
		func() *Error { return ValidateID(artifactIDOrGroup) },
		func() *Error { return ValidateVersion(versionOrArtifactID) },
		func() *Error { return validateMetadataFilename(filename) },
	)
	if err != nil {
		return invalid
	}
	return nil
}

// IsMetadataPath reports whether path denotes a maven-metadata.xml file or one
// of its checksum/signature siblings. Metadata paths are exempt from the
// artifact grammar and from immutability enforcement.
func IsMetadataPath(path string) bool {
	return ValidateMetadataPath(path) == nil
}

func validateMetadataFilename(filename string) *Error {
	if !metadataFilenamePattern.MatchString(filename) {
		return &Error{Value: filename, Message: "Not a valid metadata filename!"}
	}
	return nil
}
