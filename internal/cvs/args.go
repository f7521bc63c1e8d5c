package cvs

func addArgs(root, path string, binary bool) []string {
	if binary {
		return []string{"-d", root, "add", "-kb", path}
	}
	return []string{"-d", root, "add", path}
}

func removeArgs(root, path string) []string {
	return []string{"-d", root, "remove", path}
}

func commitArgs(root, comment string, paths []string) []string {
	args := []string{"-d", root, "commit", "-m", comment}
	return append(args, paths...)
}

func checkoutArgs(root, module, branchTag string) []string {
	if branchTag == "" {
		return []string{"-d", root, "checkout", module}
	}
	return []string{"-d", root, "checkout", "-r", branchTag, module}
}

// updateArgs creates missing directories and prunes empty ones.
func updateArgs(root, branchTag string) []string {
	if branchTag == "" {
		return []string{"-d", root, "update", "-d", "-P", "."}
	}
	return []string{"-d", root, "update", "-r", branchTag, "-d", "-P", "."}
}

func dryRunArgs(root string) []string {
	return []string{"-d", root, "-qn", "update"}
}

func fetchArgs(root, path string) []string {
	return []string{"-d", root, "update", path}
}
