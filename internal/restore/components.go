// Package restore implements the per-component restore sequence:
// stop, optional cleanup, extract, fix ownership, start.
package restore

// ArchiveTask maps one archive file in the backup set to its
// extraction destination
type ArchiveTask struct {
	// Archive is the file name inside the backup directory
	Archive string
	// Dest is the extraction root. The capture tool tars absolute
	// system trees, so every current archive extracts at /.
	Dest string
	// CleanFirst empties the component's cleanup target before this
	// archive is extracted
	CleanFirst bool
}

// ComponentSpec describes one managed component. The three instances are
// fixed data: only this table differs between indexer, dashboard and
// manager, the sequence itself is shared.
type ComponentSpec struct {
	Name          string
	Unit          string
	Owner         string   // user:group applied after extraction
	OwnerPaths    []string // roots the ownership fix walks
	CleanupTarget string   // must sit inside the safeclean allow-list
	Tasks         []ArchiveTask
}

// Components returns the fixed component table in restore order:
// configuration (indexer) before data (dashboard) before the manager
// that consumes both. The order is conventional, not enforced.
func Components() []ComponentSpec {
	return []ComponentSpec{
		{
			Name:          "indexer",
			Unit:          "wazuh-indexer",
			Owner:         "wazuh-indexer:wazuh-indexer",
			OwnerPaths:    []string{"/etc/wazuh-indexer", "/var/lib/wazuh-indexer"},
			CleanupTarget: "/var/lib/wazuh-indexer",
			Tasks: []ArchiveTask{
				{Archive: "wazuh_indexer_config.tar.gz", Dest: "/"},
				{Archive: "wazuh_indexer_security.tar.gz", Dest: "/"},
				{Archive: "wazuh_indexer_data.tar.gz", Dest: "/", CleanFirst: true},
			},
		},
		{
			Name:          "dashboard",
			Unit:          "wazuh-dashboard",
			Owner:         "wazuh-dashboard:wazuh-dashboard",
			OwnerPaths:    []string{"/etc/wazuh-dashboard", "/var/lib/wazuh-dashboard"},
			CleanupTarget: "/var/lib/wazuh-dashboard",
			Tasks: []ArchiveTask{
				{Archive: "wazuh_dashboard_config.tar.gz", Dest: "/"},
				{Archive: "wazuh_dashboard_data.tar.gz", Dest: "/", CleanFirst: true},
			},
		},
		{
			Name:          "manager",
			Unit:          "wazuh-manager",
			Owner:         "wazuh:wazuh",
			OwnerPaths:    []string{"/var/ossec"},
			CleanupTarget: "/var/ossec/queue",
			Tasks: []ArchiveTask{
				{Archive: "wazuh_manager_config.tar.gz", Dest: "/"},
				{Archive: "wazuh_manager_var.tar.gz", Dest: "/", CleanFirst: true},
				{Archive: "wazuh_rules_decoders.tar.gz", Dest: "/"},
			},
		},
	}
}

// ArchiveNames lists every archive the backup layout may contain,
// across all components
func ArchiveNames() []string {
	var names []string
	for _, spec := range Components() {
		for _, task := range spec.Tasks {
			names = append(names, task.Archive)
		}
	}
	return names
}
