package ports

// Watcher monitors input paths (message exports, config and lookup files) and
// triggers a fresh analysis run when they change. The adapter filters out
// editor droppings and debounces bursts before invoking onChange.
type Watcher interface {
	// Watch starts monitoring each path (file or directory). onChange is called
	// with the absolute path of each changed file, from any goroutine.
	Watch(paths []string, onChange func(filePath string)) error

	// Stop ends monitoring and releases all resources. After Stop returns,
	// no further onChange calls will fire. Safe to call multiple times.
	Stop() error
}
