package settings

// AccountRef is a setting that stores a reference to another account by
// name (e.g. a "primary inventory account" pointer), realized as a plain
// string setting with a dedicated constructor for readability at call
// sites.
func AccountRef(name string) Setting[string] {
	return Setting[string]{Name: name, Default: ""}
}

func Bool(name string, def bool) Setting[bool] {
	return Setting[bool]{Name: name, Default: def}
}

func Integer(name string, def int64) Setting[int64] {
	return Setting[int64]{Name: name, Default: def}
}

func String(name string, def string) Setting[string] {
	return Setting[string]{Name: name, Default: def}
}
