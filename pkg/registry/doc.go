// Package registry discovers template definitions from one or more root
// directories and keeps them in a de-duplicated catalog. Roots are scanned in
// the order they are added (the internal templates path first, then any
// external paths) and later roots can only contribute new ids.
//
// Within a root every immediate child directory must hold a manifest; a
// missing or malformed manifest fails the whole call. Plain files at the root
// level are logged and skipped.
package registry
