// Package policyxml walks a directory of SROS2-style policy XML documents
// and parses them into types.Enclave records, resolving xi:include
// directives along the way.
package policyxml

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/JonasWoh/ROS2PrivacyGraph/pkg/types"
)

// Walk returns every *.xml file under root, in lexicographic order.
func Walk(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".xml") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return files, nil
}

// xmlPolicy, xmlEnclave, xmlProfile, and xmlExpression mirror the on-disk
// SROS2 policy document shape; they are the unmarshal target before
// conversion to the typed types.Enclave records the compiler consumes.
type xmlPolicy struct {
	XMLName  xml.Name     `xml:"policy"`
	Enclaves []xmlEnclave `xml:"enclaves>enclave"`
}

type xmlEnclave struct {
	Path     string       `xml:"path,attr"`
	Profiles []xmlProfile `xml:"profiles>profile"`
	Includes []xmlInclude `xml:"include"`
}

type xmlInclude struct {
	Href string `xml:"href,attr"`
}

type xmlProfile struct {
	Namespace   string          `xml:"ns,attr"`
	Node        string          `xml:"node,attr"`
	Topics      []xmlExpression `xml:"topics"`
	Services    []xmlExpression `xml:"services"`
	Actions     []xmlExpression `xml:"actions"`
}

type xmlExpression struct {
	Publish               []string `xml:"publish"`
	Subscribe             []string `xml:"subscribe"`
	Reply                 []string `xml:"reply"`
	Request               []string `xml:"request"`
	Execute               []string `xml:"execute"`
	Call                  []string `xml:"call"`
	PublishAttr           string   `xml:"publish,attr"`
	SubscribeAttr         string   `xml:"subscribe,attr"`
	ReplyAttr             string   `xml:"reply,attr"`
	RequestAttr           string   `xml:"request,attr"`
	ExecuteAttr           string   `xml:"execute,attr"`
	CallAttr              string   `xml:"call,attr"`
	TopicElements         []string `xml:"topic"`
	ServiceElements       []string `xml:"service"`
	ActionElements        []string `xml:"action"`
}

// ParseFile parses a single policy XML file into Enclave records, without
// resolving xi:include (callers use BuildFromDirectory for that, or call
// ResolveIncludes themselves).
func ParseFile(path string) ([]types.Enclave, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var doc xmlPolicy
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	out := make([]types.Enclave, 0, len(doc.Enclaves))
	for _, e := range doc.Enclaves {
		out = append(out, convertEnclave(e))
	}
	return out, nil
}

func convertEnclave(e xmlEnclave) types.Enclave {
	enclave := types.Enclave{Path: e.Path}
	for _, p := range e.Profiles {
		enclave.Profiles = append(enclave.Profiles, convertProfile(p))
	}
	return enclave
}

func convertProfile(p xmlProfile) types.Profile {
	profile := types.Profile{Namespace: p.Namespace, Node: p.Node}
	for _, t := range p.Topics {
		profile.Expressions = append(profile.Expressions, expressionsFor("topics", t)...)
	}
	for _, s := range p.Services {
		profile.Expressions = append(profile.Expressions, expressionsFor("services", s)...)
	}
	for _, a := range p.Actions {
		profile.Expressions = append(profile.Expressions, expressionsFor("actions", a)...)
	}
	return profile
}

// expressionsFor emits one types.Expression per (permission, decision)
// present in the raw block. A permission attribute of "ALLOW"/"DENY"
// governs every <topic>/<service>/<action> child of the block.
func expressionsFor(kind string, x xmlExpression) []types.Expression {
	var out []types.Expression
	elements := elementsFor(kind, x)

	add := func(permission, decision string, names []string) {
		if decision == "" || len(names) == 0 {
			return
		}
		out = append(out, types.Expression{
			Kind: kind, Permission: permission, Decision: decision, Elements: names,
		})
	}

	add("publish", x.PublishAttr, elements)
	add("subscribe", x.SubscribeAttr, elements)
	add("reply", x.ReplyAttr, elements)
	add("request", x.RequestAttr, elements)
	add("execute", x.ExecuteAttr, elements)
	add("call", x.CallAttr, elements)

	return out
}

func elementsFor(kind string, x xmlExpression) []string {
	switch kind {
	case "topics":
		return x.TopicElements
	case "services":
		return x.ServiceElements
	case "actions":
		return x.ActionElements
	default:
		return nil
	}
}

// ResolveIncludes appends xi:include-referenced enclaves after doc's own
// enclaves, in href order. This is a minimal subset of the XInclude spec —
// single-level inclusion of an entire policy document's enclaves, resolved
// relative to the including file's directory — matching what SROS2 policy
// sets actually exercise, not the full XInclude specification (explicitly
// out of scope).
func ResolveIncludes(baseDir string, doc []types.Enclave, includes []string) ([]types.Enclave, error) {
	out := append([]types.Enclave{}, doc...)
	for _, href := range includes {
		path := href
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, href)
		}
		included, err := ParseFile(path)
		if err != nil {
			return nil, fmt.Errorf("resolve include %s: %w", href, err)
		}
		out = append(out, included...)
	}
	return out, nil
}

// BuildFromDirectory walks root, parses every policy XML file, resolves
// xi:include directives, and returns the accumulated enclave records. Each
// file's own parse/include errors are collected and returned alongside
// rather than aborting the whole walk (InputMalformed handling applied at
// ingestion granularity).
func BuildFromDirectory(root string) ([]types.Enclave, []error) {
	files, err := Walk(root)
	if err != nil {
		return nil, []error{err}
	}

	var enclaves []types.Enclave
	var errs []error

	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("read %s: %w", path, err))
			continue
		}

		var doc xmlPolicy
		if err := xml.Unmarshal(data, &doc); err != nil {
			errs = append(errs, fmt.Errorf("parse %s: %w", path, err))
			continue
		}

		var includes []string
		for _, e := range doc.Enclaves {
			for _, inc := range e.Includes {
				includes = append(includes, inc.Href)
			}
		}

		parsed := make([]types.Enclave, 0, len(doc.Enclaves))
		for _, e := range doc.Enclaves {
			parsed = append(parsed, convertEnclave(e))
		}

		if len(includes) > 0 {
			resolved, err := ResolveIncludes(filepath.Dir(path), parsed, includes)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			parsed = resolved
		}

		enclaves = append(enclaves, parsed...)
	}

	return enclaves, errs
}
