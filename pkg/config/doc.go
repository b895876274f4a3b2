/*
Package config loads the daemon's YAML configuration: controller
endpoints, region, sync interval, credentials, and logging.

Example:

	controllers:
	  - https://cvx01:443/api
	  - https://cvx02:443/api
	region: RegionOne
	sync_interval: 10
	username: fabricsync
	password: secret
	data_dir: /var/lib/fabricsync
	metrics_addr: :9464
	log_level: info
	log_json: true
*/
package config
