package shared_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"playstore/internal/shared"
)

func TestConfigLoad(t *testing.T) {
	convey.Convey("Given the config loader", t, func() {
		for _, k := range []string{
			shared.ConfigFileEnv, "PLAYSTORE_HTTP_ADDR", "PLAYSTORE_DB_DRIVER", "PLAYSTORE_DB_DSN",
			"PLAYSTORE_REDIS_ADDR", "PLAYSTORE_REDIS_DB", "PLAYSTORE_CACHE_TTL", "PLAYSTORE_INGEST_ROWS_PER_SEC",
		} {
			t.Setenv(k, "")
			_ = os.Unsetenv(k)
		}

		convey.Convey("When nothing is set", func() {
			cfg, err := shared.Load()

			convey.Convey("Then the defaults apply", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, shared.Defaults())
				convey.So(cfg.CacheEnabled(), convey.ShouldBeFalse)
			})
		})

		convey.Convey("When environment variables are set", func() {
			t.Setenv("PLAYSTORE_DB_DRIVER", "mysql")
			t.Setenv("PLAYSTORE_DB_DSN", "u:p@tcp(db:3306)/playstore")
			t.Setenv("PLAYSTORE_REDIS_ADDR", "localhost:6379")
			t.Setenv("PLAYSTORE_REDIS_DB", "2")
			t.Setenv("PLAYSTORE_CACHE_TTL", "90s")
			t.Setenv("PLAYSTORE_INGEST_ROWS_PER_SEC", "500")

			cfg, err := shared.Load()

			convey.Convey("Then they override the defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.DBDriver, convey.ShouldEqual, "mysql")
				convey.So(cfg.DBDSN, convey.ShouldEqual, "u:p@tcp(db:3306)/playstore")
				convey.So(cfg.RedisDB, convey.ShouldEqual, 2)
				convey.So(cfg.CacheTTL, convey.ShouldEqual, 90*time.Second)
				convey.So(cfg.IngestRowsPerSec, convey.ShouldEqual, 500)
				convey.So(cfg.CacheEnabled(), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a YAML file is given", func() {
			path := filepath.Join(t.TempDir(), "playstore.yaml")
			doc := "http_addr: \":9999\"\ndb_dsn: from-file.db\ncache_ttl: 1m\n"
			convey.So(os.WriteFile(path, []byte(doc), 0o600), convey.ShouldBeNil)
			t.Setenv(shared.ConfigFileEnv, path)
			t.Setenv("PLAYSTORE_DB_DSN", "from-env.db")

			cfg, err := shared.Load()

			convey.Convey("Then the environment still wins over the file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.HTTPAddr, convey.ShouldEqual, ":9999")
				convey.So(cfg.CacheTTL, convey.ShouldEqual, time.Minute)
				convey.So(cfg.DBDSN, convey.ShouldEqual, "from-env.db")
			})
		})

		convey.Convey("When the driver is unknown", func() {
			t.Setenv("PLAYSTORE_DB_DRIVER", "postgres")

			_, err := shared.Load()

			convey.Convey("Then loading fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "postgres")
			})
		})

		convey.Convey("When the config file is missing", func() {
			t.Setenv(shared.ConfigFileEnv, filepath.Join(t.TempDir(), "nope.yaml"))

			_, err := shared.Load()

			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}
