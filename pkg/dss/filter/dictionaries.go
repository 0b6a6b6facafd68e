package filter

// Per-entity-kind field dictionaries. These are the only fields a caller
// may filter on; anything else is rejected by Compile before a query is
// ever built.

var ObjectFields = FieldDictionary{
	"oid":        "oid",
	"uuid":       "uuid",
	"version":    "version",
	"user_md":    "user_md",
	"created_at": "created_at",
}

var DeprecatedObjectFields = FieldDictionary{
	"oid":           "oid",
	"uuid":          "uuid",
	"version":       "version",
	"user_md":       "user_md",
	"created_at":    "created_at",
	"deprecated_at": "deprecated_at",
}

var DeviceFields = FieldDictionary{
	"family":     "family",
	"name":       "name",
	"library":    "library",
	"host":       "host",
	"adm_status": "adm_status",
	"model":      "model",
}

var MediumFields = FieldDictionary{
	"family":           "family",
	"name":             "name",
	"library":          "library",
	"adm_status":       "adm_status",
	"fs_status":        "fs_status",
	"fs_label":         "fs_label",
	"nb_obj":           "nb_obj",
	"logc_spc_used":    "logc_spc_used",
	"phys_spc_used":    "phys_spc_used",
	"phys_spc_free":    "phys_spc_free",
	"tags":             "tags",
	"groupings":        "groupings",
	"put_access":       "put_access",
	"get_access":       "get_access",
	"delete_access":    "delete_access",
	"last_locate":      "last_locate",
}

var LogFields = FieldDictionary{
	"family":     "family",
	"device_id":  "device_id",
	"medium_id":  "medium_id",
	"user_md":    "user_md",
	"errno":      "errno",
	"created_at": "created_at",
}

var LockFields = FieldDictionary{
	"entity_kind": "entity_kind",
	"identity":    "identity",
	"hostname":    "hostname",
	"pid":         "pid",
	"acquired_at": "acquired_at",
	"last_locate": "last_locate",
}
