package config

import "time"

// Application-wide constants organized by domain

// UI and Display Constants
const (
	// Pagination
	SubmissionsPerPage = 8
	CluesPerPage       = 10

	// Colors
	ErrorColor   = 0xFF0000
	SuccessColor = 0x00FF00
	InfoColor    = 0x0099FF
	WarningColor = 0xFFAA00
)

// Database and Performance Constants
const (
	// Timeouts
	DefaultQueryTimeout     = 30 * time.Second
	SearchTimeout           = 10 * time.Second
	CommandExecutionTimeout = 10 * time.Second
	NetworkDialTimeout      = 5 * time.Second

	// Cache settings
	ClueCacheSize = 1024

	// Batch processing
	ImportBatchSize = 500
)

// Game Mechanics Constants
const (
	JoinCodeLength = 6

	// Media submissions
	MaxMediaSize          = 10 * 1024 * 1024 // 10MB
	MaxMediaPerSubmission = 4
	MediaRoot             = "submissions/"
)

// Search Constants
const (
	MaxSearchResults = 25
)
