package cache

// Cache key builders. The string formats are a stable contract shared
// with every service that interoperates with this cache; changing them
// orphans entries written by older processes until their TTL runs out.

// TaskKey is the single-task read model: "task:<id>".
func TaskKey(taskID string) string {
	return "task:" + taskID
}

// TasksByUserKey is a user's task list (created or assigned):
// "tasks:user:<userId>".
func TasksByUserKey(userID string) string {
	return "tasks:user:" + userID
}

// TasksByProjectKey is a project's task list: "tasks:project:<projectId>".
func TasksByProjectKey(projectID string) string {
	return "tasks:project:" + projectID
}

// ProjectKey is the single-project read model: "project:<id>".
func ProjectKey(projectID string) string {
	return "project:" + projectID
}

// ProjectsByUserKey is a user's project list: "projects:user:<userId>".
func ProjectsByUserKey(userID string) string {
	return "projects:user:" + userID
}
