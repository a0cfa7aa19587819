// Package manifest loads template definitions from the per-template manifest
// file (`config.json`, `config.yaml` or `config.yml`). A manifest declares the
// template identity plus the ordered options the session prompts for before
// rendering. Manifests are validated against a strict schema so a broken
// template reports the offending field instead of a generic decode failure.
package manifest
