// Package main provides the entry point for the site administration service.
// It runs a web server using the Fiber framework that exposes the public
// site settings, an authenticated settings administration API and a media
// binding API that uploads assets to a remote blob store and records their
// URLs as settings. Data persistence is handled with gorm.
package main
