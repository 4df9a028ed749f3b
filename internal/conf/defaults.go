// conf/defaults.go default values for settings
package conf

import (
	"github.com/spf13/viper"
)

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("main.name", "audiodash")
	viper.SetDefault("main.log.enabled", true)
	viper.SetDefault("main.log.path", "audiodash.log")
	viper.SetDefault("main.log.maxsize", 10)
	viper.SetDefault("main.log.maxbackups", 3)
	viper.SetDefault("main.log.maxage", 30)

	viper.SetDefault("audio.source", "sysdefault")
	viper.SetDefault("audio.samplerate", 44100)
	viper.SetDefault("audio.channels", 1)
	viper.SetDefault("audio.blocksize", 2048)
	viper.SetDefault("audio.windowseconds", 45)
	viper.SetDefault("audio.clip.postseconds", 15)

	viper.SetDefault("export.type", "mp3")
	viper.SetDefault("export.bitrate", "64k")
	viper.SetDefault("export.ffmpegpath", "ffmpeg")
	viper.SetDefault("export.clippath", "data/recordings/clips")
	viper.SetDefault("export.panicpath", "data/recordings/panic")

	viper.SetDefault("crypto.mode", "hybrid")
	viper.SetDefault("crypto.publickey", "public_key.pem")
	viper.SetDefault("crypto.password", "")
	viper.SetDefault("crypto.iterations", 100000)

	viper.SetDefault("output.sqlite.enabled", true)
	viper.SetDefault("output.sqlite.path", "audiodash.db")

	viper.SetDefault("trigger.source", "signal")
	viper.SetDefault("trigger.debouncems", 300)
}
