package registry

import "path/filepath"

// Project directories below the repository root
const (
	ObserverProject = "prj_obs"
	QTSProject      = "prj_qts"
)

// Default returns the built-in secret definitions.
// repoRoot is the directory holding the project checkouts.
func Default(repoRoot string) []Definition {
	obsConfig := filepath.Join(repoRoot, ObserverProject, "config")
	qtsConfig := filepath.Join(repoRoot, QTSProject, "config")

	return []Definition{
		{
			Output:     "obs-db-sealed-secret.yaml",
			SourceDirs: []string{obsConfig},
			SecretName: "obs-db-secret",
			Fields: []Field{
				envField("POSTGRES_USER", "DB_USER"),
				envField("POSTGRES_PASSWORD", "DB_PASSWORD"),
				envField("POSTGRES_DB", "DB_NAME"),
				envField("DB_USER", "DB_USER"),
				envField("DB_PASSWORD", "DB_PASSWORD"),
			},
		},
		{
			Output:     "obs-kis-sealed-secret.yaml",
			SourceDirs: []string{obsConfig},
			SecretName: "obs-kis-secret",
			Fields: []Field{
				envField("KIS_APP_KEY", "KIS_APP_KEY"),
				envField("KIS_APP_SECRET", "KIS_APP_SECRET"),
				envField("KIS_HTS_ID", "KIS_HTS_ID"),
			},
		},
		{
			Output:     "obs-kiwoom-sealed-secret.yaml",
			SourceDirs: []string{obsConfig},
			SecretName: "obs-kiwoom-secret",
			Fields: []Field{
				envField("KIWOOM_APP_KEY", "KIWOOM_APP_KEY"),
				envField("KIWOOM_APP_SECRET", "KIWOOM_APP_SECRET"),
				envField("KIWOOM_HTS_ID", "KIWOOM_HTS_ID"),
			},
		},
		{
			Output:     "qts-kis-sealed-secret.yaml",
			SourceDirs: []string{qtsConfig},
			SecretName: "qts-kis-secret",
			Fields: []Field{
				envField("KIS_VTS_APP_KEY", "KIS_VTS_APP_KEY"),
				envField("KIS_VTS_APP_SECRET", "KIS_VTS_APP_SECRET"),
				envField("KIS_VTS_ACCOUNT_NO", "KIS_VTS_ACCOUNT_NO"),
				envField("KIS_REAL_APP_KEY", "KIS_REAL_APP_KEY"),
				envField("KIS_REAL_APP_SECRET", "KIS_REAL_APP_SECRET"),
				envField("KIS_REAL_ACCOUNT_NO", "KIS_REAL_ACCOUNT_NO"),
			},
		},
		{
			Output:     "qts-kiwoom-sealed-secret.yaml",
			SourceDirs: []string{qtsConfig},
			SecretName: "qts-kiwoom-secret",
			Fields: []Field{
				envField("KIWOOM_VTS_APP_KEY", "KIWOOM_VTS_APP_KEY"),
				envField("KIWOOM_VTS_APP_SECRET", "KIWOOM_VTS_APP_SECRET"),
				envField("KIWOOM_REAL_APP_KEY", "KIWOOM_REAL_APP_KEY"),
				envField("KIWOOM_REAL_APP_SECRET", "KIWOOM_REAL_APP_SECRET"),
			},
		},
		{
			Output:     "qts-credentials-sealed-secret.yaml",
			SourceDirs: []string{qtsConfig},
			SecretName: "qts-credentials",
			Fields: []Field{
				fileField("credentials.json", "credentials.json"),
			},
		},
	}
}
