// Package loader registers store drivers via blank imports.
// Import this package to ensure all token store drivers are available.
//
// Usage in main.go:
//
//	import _ "github.com/MahdiBaghbani/feedclient-go/internal/store/loader"
package loader

import (
	_ "github.com/MahdiBaghbani/feedclient-go/internal/store/json"
	_ "github.com/MahdiBaghbani/feedclient-go/internal/store/memory"
	_ "github.com/MahdiBaghbani/feedclient-go/internal/store/redis"
	_ "github.com/MahdiBaghbani/feedclient-go/internal/store/sqlite"
)
