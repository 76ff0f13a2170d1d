// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package filters provides filtering capabilities for release datasets.
//
// The package parses filter expressions to select subsets of releases based on
// attribute values. Filters are specified as key-operator-target expressions and
// can be combined using a configurable delimiter (default: comma).
//
// Operators include:
//
//   - = : exact match (supports negation with !=)
//   - ^ : prefix match (supports negation with !^)
//   - ~ : case-insensitive match (supports negation with !~)
//   - < : less than (version-aware, numeric or lexicographic)
//   - > : greater than (version-aware, numeric or lexicographic)
//   - @ : contains substring (supports negation with !@)
//   - ? : satisfies version range (supports negation with !?)
//   - / : regex match (supports negation with !/)
//
// Examples:
//
//   - "channel=stable" : matches releases where channel equals "stable"
//   - "version^1." : matches releases where version starts with "1."
//   - "version?>=1.0.0 <2.0.0" : matches releases inside the range
//   - "major>1" : matches releases where major is greater than 1
//   - "notes!@beta" : matches releases whose notes do not contain "beta"
//
// Filter Keys and Attributes:
//
// Filter keys are matched against the OutputKey of attributes (see attrs package).
// Keys prefixed with underscore (_) are reserved for manifest provider native
// filters and are silently ignored by this package.
//
// Filter Parsing:
//
// The BuildFilters function parses a comma-delimited (or custom-delimited) filter
// specification string. Invalid specifications (unsupported operands or malformed
// expressions) are logged as warnings and skipped, allowing partial filter sets
// to be processed.
//
// Filter Application:
//
// The FilterDataset function filters a list of candidate releases, keeping only
// those that match all provided filter expressions. Attributes specified in the
// attrs parameter are used to determine which fields from the release are
// included in the filtered result.
package filters
