// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package hclver

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

// Requirement is a single version constraint pulled from a configuration
// file. Address identifies where the constraint was declared, such as
// terraform.required_version, provider.aws or module.vpc.
type Requirement struct {
	File       string `json:"file"`
	Address    string `json:"address"`
	Constraint string `json:"constraint"`
}

// ScanDir walks dir for .tf and .tofu files and collects the version
// constraints they declare. Hidden directories (which covers .terraform
// caches) are skipped. A file that fails to parse is logged and skipped so
// that one broken file doesn't hide the rest of the tree.
func ScanDir(dir string) ([]Requirement, error) {
	var reqs []Requirement

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		switch strings.ToLower(filepath.Ext(d.Name())) {
		case ".tf", ".tofu":
		default:
			return nil
		}

		fileReqs, err := ScanFile(path)
		if err != nil {
			log.Debugf("skipping %s: %v", path, err)
			return nil
		}
		reqs = append(reqs, fileReqs...)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	return reqs, nil
}

// ScanFile parses a single configuration file and returns the version
// constraints it declares, in source order.
func ScanFile(path string) ([]Requirement, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	file, diags := hclsyntax.ParseConfig(src, path, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse %s: %s", path, diags.Error())
	}

	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("unexpected body type in %s", path)
	}

	var reqs []Requirement
	for _, block := range body.Blocks {
		switch block.Type {
		case "terraform":
			reqs = append(reqs, terraformRequirements(path, block)...)
		case "module":
			if len(block.Labels) != 1 {
				continue
			}
			if constraint, ok := attrString(block.Body.Attributes["version"]); ok {
				reqs = append(reqs, Requirement{
					File:       path,
					Address:    "module." + block.Labels[0],
					Constraint: constraint,
				})
			}
		}
	}

	return reqs, nil
}

// terraformRequirements pulls required_version and required_providers
// constraints out of a terraform block.
func terraformRequirements(path string, block *hclsyntax.Block) []Requirement {
	var reqs []Requirement

	if constraint, ok := attrString(block.Body.Attributes["required_version"]); ok {
		reqs = append(reqs, Requirement{
			File:       path,
			Address:    "terraform.required_version",
			Constraint: constraint,
		})
	}

	for _, inner := range block.Body.Blocks {
		if inner.Type != "required_providers" {
			continue
		}

		// Attributes is a map, so impose source order for stable output.
		attrs := make([]*hclsyntax.Attribute, 0, len(inner.Body.Attributes))
		for _, attr := range inner.Body.Attributes {
			attrs = append(attrs, attr)
		}
		sort.Slice(attrs, func(i, j int) bool {
			return attrs[i].SrcRange.Start.Byte < attrs[j].SrcRange.Start.Byte
		})

		for _, attr := range attrs {
			if constraint, ok := providerConstraint(attr); ok {
				reqs = append(reqs, Requirement{
					File:       path,
					Address:    "provider." + attr.Name,
					Constraint: constraint,
				})
			}
		}
	}

	return reqs
}

// attrString evaluates attr as a constant string. Attributes that are
// absent, reference variables, or hold some other type report false.
func attrString(attr *hclsyntax.Attribute) (string, bool) {
	if attr == nil {
		return "", false
	}

	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() || val.IsNull() || val.Type() != cty.String {
		return "", false
	}

	return val.AsString(), true
}

// providerConstraint handles both required_providers entry forms:
//
//	aws = ">= 5.0"
//	aws = { source = "hashicorp/aws", version = "~> 5.0" }
func providerConstraint(attr *hclsyntax.Attribute) (string, bool) {
	if attr == nil {
		return "", false
	}

	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() || val.IsNull() {
		return "", false
	}

	if val.Type() == cty.String {
		return val.AsString(), true
	}

	if val.Type().IsObjectType() && val.Type().HasAttribute("version") {
		version := val.GetAttr("version")
		if !version.IsNull() && version.Type() == cty.String {
			return version.AsString(), true
		}
	}

	return "", false
}

// NormalizeConstraint rewrites a Terraform constraint string into the range
// grammar used by the version engine. Comma separated terms are ANDed, which
// the range grammar spells with whitespace. Pessimistic terms expand into
// their explicit bounds:
//
//	~> 1.2.3  becomes  >=1.2.3 <1.3.0
//	~> 1.2    becomes  >=1.2.0 <2.0.0
//
// A bare version is an exact match. Terms that cannot be rewritten are left
// alone and will evaluate as unsatisfied.
func NormalizeConstraint(constraint string) string {
	parts := strings.Split(constraint, ",")

	terms := make([]string, 0, len(parts))
	for _, part := range parts {
		// Terraform allows spaces between the operator and the version.
		part = strings.ReplaceAll(part, " ", "")
		if part == "" {
			continue
		}

		switch {
		case strings.HasPrefix(part, "~>"):
			terms = append(terms, expandPessimistic(strings.TrimPrefix(part, "~>"))...)
		case strings.HasPrefix(part, ">"),
			strings.HasPrefix(part, "<"),
			strings.HasPrefix(part, "="),
			strings.HasPrefix(part, "!"):
			terms = append(terms, part)
		default:
			terms = append(terms, "="+part)
		}
	}

	return strings.Join(terms, " ")
}

// expandPessimistic expands a ~> operand into explicit bounds. Only the
// rightmost stated component is allowed to grow.
func expandPessimistic(operand string) []string {
	fields := strings.Split(strings.TrimPrefix(operand, "v"), ".")

	nums := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			// Not a plain numeric version. Punt and let evaluation reject it.
			return []string{"~>" + operand}
		}
		nums = append(nums, n)
	}

	switch len(nums) {
	case 1:
		return []string{fmt.Sprintf(">=%d.0.0", nums[0]), fmt.Sprintf("<%d.0.0", nums[0]+1)}
	case 2:
		return []string{fmt.Sprintf(">=%d.%d.0", nums[0], nums[1]), fmt.Sprintf("<%d.0.0", nums[0]+1)}
	case 3:
		return []string{fmt.Sprintf(">=%d.%d.%d", nums[0], nums[1], nums[2]), fmt.Sprintf("<%d.%d.0", nums[0], nums[1]+1)}
	default:
		return []string{"~>" + operand}
	}
}
