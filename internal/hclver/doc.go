// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package hclver extracts version constraints from Terraform and OpenTofu
// configuration files. It understands terraform.required_version, provider
// entries under terraform.required_providers, and module version pins, and
// can rewrite Terraform constraint syntax into range expressions.
package hclver
