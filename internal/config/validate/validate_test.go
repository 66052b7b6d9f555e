package validate

import "testing"

func TestValidateMetaJSONAcceptsObjectDependencies(t *testing.T) {
	data := []byte(`{"creatorName":"Alice","licenseType":"CC BY","dependencies":{"Bob.Hair.1":{}}}`)
	if err := ValidateMetaJSON(data); err != nil {
		t.Errorf("expected valid meta.json to pass, got: %v", err)
	}
}

func TestValidateMetaJSONAcceptsArrayDependencies(t *testing.T) {
	data := []byte(`{"dependencies":["Bob.Hair.1","Bob.Hair.latest"]}`)
	if err := ValidateMetaJSON(data); err != nil {
		t.Errorf("expected array-form dependencies to pass, got: %v", err)
	}
}

func TestValidateMetaJSONRejectsWrongDependenciesType(t *testing.T) {
	data := []byte(`{"dependencies":"Bob.Hair.1"}`)
	if err := ValidateMetaJSON(data); err == nil {
		t.Error("expected string-typed dependencies to fail schema validation")
	}
}

func TestValidateConfigJSONRequiresVamDir(t *testing.T) {
	data := []byte(`{"logging":{"level":"info"}}`)
	if err := ValidateConfigJSON(data); err == nil {
		t.Error("expected config missing vam_dir to fail validation")
	}
}

func TestValidateConfigJSONAcceptsMinimalConfig(t *testing.T) {
	data := []byte(`{"vam_dir":"/home/user/VaM"}`)
	if err := ValidateConfigJSON(data); err != nil {
		t.Errorf("expected minimal valid config to pass, got: %v", err)
	}
}

func TestValidateConfigJSONRejectsBadLogLevel(t *testing.T) {
	data := []byte(`{"vam_dir":"/home/user/VaM","logging":{"level":"verbose"}}`)
	if err := ValidateConfigJSON(data); err == nil {
		t.Error("expected invalid logging level to fail validation")
	}
}
