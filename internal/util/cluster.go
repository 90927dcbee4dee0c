package util

import (
	"path/filepath"
	"strings"
)

// ClusterNameFromFile derives a cluster name from a credential file path.
// The directory and the last extension are stripped: "/cfg/prod-east.yaml" becomes "prod-east".
// Files without an extension (e.g. "k8s-staging") keep their full base name.
func ClusterNameFromFile(path string) string {
	base := filepath.Base(path)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}

	ext := filepath.Ext(base)
	if ext == "" || ext == base {
		return base
	}

	return strings.TrimSuffix(base, ext)
}

// PodRef renders a namespace/name pair the way kubectl does
func PodRef(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "/" + name
}
