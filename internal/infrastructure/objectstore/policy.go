// Package objectstore holds what the MinIO and S3 adapters share: bucket
// policy documents and endpoint handling.
package objectstore

import (
	"encoding/json"
	"fmt"
	"strings"
)

const policyVersion = "2012-10-17"

type (
	policyDocument struct {
		Version   string      `json:"Version"`
		Statement []statement `json:"Statement"`
	}
	statement struct {
		Effect    string          `json:"Effect"`
		Principal json.RawMessage `json:"Principal"`
		Action    stringList      `json:"Action"`
		Resource  stringList      `json:"Resource"`
	}
	// stringList accepts both "x" and ["x", "y"].
	stringList []string
)

func (l *stringList) UnmarshalJSON(b []byte) error {
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		*l = stringList{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return err
	}
	*l = many
	return nil
}

func objectsARN(bucket string) string { return fmt.Sprintf("arn:aws:s3:::%s/*", bucket) }

// PublicReadPolicy grants anonymous s3:GetObject on every object of bucket.
func PublicReadPolicy(bucket string) string {
	principal, _ := json.Marshal(map[string][]string{"AWS": {"*"}})
	doc := policyDocument{
		Version: policyVersion,
		Statement: []statement{{
			Effect:    "Allow",
			Principal: principal,
			Action:    stringList{"s3:GetObject"},
			Resource:  stringList{objectsARN(bucket)},
		}},
	}
	b, _ := json.Marshal(doc)
	return string(b)
}

func isAnonymous(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var star string
	if err := json.Unmarshal(raw, &star); err == nil {
		return star == "*"
	}
	var byType map[string]stringList
	if err := json.Unmarshal(raw, &byType); err != nil {
		return false
	}
	for _, p := range byType["AWS"] {
		if p == "*" {
			return true
		}
	}
	return false
}

// IsPublicRead reports whether policy lets anyone read the objects of bucket.
// An empty or unparsable policy is private.
func IsPublicRead(policy, bucket string) bool {
	if strings.TrimSpace(policy) == "" {
		return false
	}

	var doc policyDocument
	if err := json.Unmarshal([]byte(policy), &doc); err != nil {
		return false
	}

	arn := objectsARN(bucket)
	for _, st := range doc.Statement {
		if st.Effect != "Allow" || !isAnonymous(st.Principal) {
			continue
		}
		if !containsAny(st.Action, "s3:GetObject", "s3:*") {
			continue
		}
		if containsAny(st.Resource, arn, "arn:aws:s3:::*") {
			return true
		}
	}
	return false
}

func containsAny(list []string, values ...string) bool {
	for _, item := range list {
		for _, v := range values {
			if item == v {
				return true
			}
		}
	}
	return false
}

// EndpointURL turns a host:port endpoint into a URL. Endpoints that already
// carry a scheme are returned as is.
func EndpointURL(endpoint string, useSSL bool) string {
	if endpoint == "" || strings.Contains(endpoint, "://") {
		return endpoint
	}
	if useSSL {
		return "https://" + endpoint
	}
	return "http://" + endpoint
}

// HostPort strips the scheme from endpoint, minio-go wants a bare host.
func HostPort(endpoint string) string {
	if i := strings.Index(endpoint, "://"); i >= 0 {
		endpoint = endpoint[i+3:]
	}
	return strings.TrimSuffix(endpoint, "/")
}
