// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package device

// REST endpoints of the player, all under /v2/.
const (
	PathFilesNew    = "/v2/files/new"
	PathFilesFind   = "/v2/files/find"
	PathFiles       = "/v2/files/" // + id
	PathFilesDelete = "/v2/files/delete"

	PathReboot     = "/v2/task/reboot"
	PathNotify     = "/v2/task/notify"
	PathScreenshot = "/v2/task/screenshot"

	PathAppExec     = "/v2/app/exec"
	PathAppStart    = "/v2/app/start"
	PathAppFallback = "/v2/app/fallback"
	PathAppSwitch   = "/v2/app/switch"

	PathStorageInfo  = "/v2/system/storageInfo"
	PathFirmwareInfo = "/v2/system/firmwareInfo"
	PathModelInfo    = "/v2/system/modelInfo"
	PathWifiEnabled  = "/v2/android.net.wifi.WifiManager/isWifiEnabled"

	PathExportConfiguration = "/v2/task/exportConfiguration"
	PathImportConfiguration = "/v2/task/importConfiguration"
	PathCommitConfiguration = "/v2/task/commitConfiguration"

	PathAdminUser             = "/v2/security/users/admin"
	PathConsoleSettingsNew    = "/v2/app/settings/com.iadea.console/new"
	PathConsoleSettingsUpdate = "/v2/app/settings/com.iadea.console/update"

	PathDisplay = "/v2/hardware/display"
	PathLight   = "/v2/hardware/light"

	// content stored on the player is served under /v2 + downloadPath
	pathContentPrefix = "/v2"
)

const (
	playerPackage = "com.iadea.player"
	playerClass   = "com.iadea.player.SmilActivity"
	viewAction    = "android.intent.action.VIEW"

	// localContentBase is how the player addresses its own storage.
	localContentBase = "http://localhost:8080/v2"

	consoleSettingsPrefix = "app.settings.com.iadea.console."
	autoStartSetting      = "disableAutoStart"

	defaultAdminPassword = "pass"
)
