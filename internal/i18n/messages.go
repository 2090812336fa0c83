package i18n

// messages 翻译表（按语言 -> key -> 文本）
var messages = map[string]map[string]string{
	LocaleEN: {
		"error.bad_request":                  "Invalid request",
		"error.unauthorized":                 "Please sign in first",
		"error.forbidden":                    "You do not have permission for this action",
		"error.not_found":                    "Record not found",
		"error.internal":                     "Something went wrong, please try again",
		"error.rate_limited":                 "Too many requests, try again in %d seconds",
		"error.rate_limit_unavailable":       "Rate limiter unavailable, please try again",
		"error.login_too_many":               "Too many login attempts, try again in %d seconds",
		"error.send_code_too_many":           "Too many code requests, try again in %d seconds",
		"error.email_invalid":                "Email address is invalid",
		"error.email_exists":                 "This email is already registered",
		"error.user_not_found":               "Account not found",
		"error.login_invalid":                "Email or password is incorrect",
		"error.email_not_verified":           "Please verify your email first",
		"error.user_disabled":                "This account has been disabled",
		"error.password_weak":                "Password does not meet the policy",
		"error.password_min_length":          "Password must be at least %d characters",
		"error.password_require_upper":       "Password must contain an uppercase letter",
		"error.password_require_lower":       "Password must contain a lowercase letter",
		"error.password_require_number":      "Password must contain a digit",
		"error.password_require_special":     "Password must contain a special character",
		"error.password_incorrect":           "Current password is incorrect",
		"error.profile_empty":                "Nothing to update",
		"error.token_invalid":                "Invalid credentials, please sign in again",
		"error.token_revoked":                "Session expired, please sign in again",
		"error.auth_header_missing":          "Authorization header is missing",
		"error.auth_header_invalid":          "Authorization header is malformed",
		"error.jwt_secret_missing":           "Server auth is not configured",
		"error.otp_invalid":                  "Verification code is incorrect",
		"error.otp_expired":                  "Verification code has expired, please request a new one",
		"error.otp_not_found":                "Verification code is incorrect",
		"error.otp_attempts_exceeded":        "Too many attempts, please request a new code",
		"error.otp_too_frequent":             "Please wait before requesting another code",
		"error.email_service_not_configured": "Email service is not configured",
		"error.send_code_failed":             "Failed to send verification code",
		"error.verify_failed":                "Verification failed, please try again",
		"error.register_failed":              "Registration failed, please try again",
		"error.already_verified":             "This account is already verified",
		"error.captcha_required":             "Captcha is required",
		"error.captcha_invalid":              "Captcha is incorrect",
		"error.captcha_config_invalid":       "Captcha is not configured correctly",
		"error.captcha_verify_failed":        "Captcha verification failed",
		"error.captcha_unavailable":          "Captcha is unavailable",
		"error.captcha_generate_failed":      "Failed to generate captcha",
		"error.schedule_not_found":           "Class schedule not found",
		"error.schedule_name_required":       "Course name is required",
		"error.schedule_conflict":            "This class overlaps an existing one",
		"error.schedule_time_invalid":        "Class time range is invalid",
		"error.schedule_fetch_failed":        "Failed to load class schedules",
		"error.schedule_save_failed":         "Failed to save class schedule",
		"error.task_not_found":               "Task not found",
		"error.task_title_required":          "Task title is required",
		"error.task_limit_reached":           "Free plan task limit reached, upgrade to premium",
		"error.task_status_invalid":          "Task status is invalid",
		"error.task_priority_invalid":        "Task priority is invalid",
		"error.task_fetch_failed":            "Failed to load tasks",
		"error.task_save_failed":             "Failed to save task",
		"error.plan_not_found":               "Subscription plan not found",
		"error.plan_disabled":                "Subscription plan is not available",
		"error.premium_required":             "This feature requires a premium subscription",
		"error.subscription_not_found":       "Subscription not found",
		"error.trial_already_used":           "Free trial has already been used",
		"error.subscribe_failed":             "Failed to activate subscription",
		"error.setting_fetch_failed":         "Failed to load settings",
		"error.setting_save_failed":          "Failed to save settings",
		"error.user_fetch_failed":            "Failed to load users",
		"error.user_update_failed":           "Failed to update user",
		"error.user_delete_failed":           "Failed to delete user",
		"error.role_invalid":                 "Role is invalid",
		"error.user_id_invalid":              "User id is invalid",
		"error.user_id_type_invalid":         "User id has unexpected type",
		"error.user_status_invalid":          "User status is invalid",
		"error.admin_login_invalid":          "Invalid admin credentials",
		"error.login_failed":                 "Login failed, please try again",
		"error.admin_fetch_failed":           "Failed to load admin account",
		"error.admin_not_found":              "Admin account not found",
		"error.admin_exists":                 "Admin username is already taken",
		"error.admin_protected":              "The built-in super admin cannot be changed this way",
		"error.admin_delete_self_forbidden":  "You cannot delete your own admin account",
		"error.admin_delete_last_forbidden":  "The last admin account cannot be deleted",
		"error.admin_id_invalid":             "Admin id is invalid",
		"error.admin_id_type_invalid":        "Admin id has unexpected type",
		"error.save_failed":                  "Failed to save changes",
		"error.plan_slug_exists":             "Plan slug already exists",
		"error.plan_save_failed":             "Failed to save subscription plan",

		"email.otp.subject.register": "Studizen registration code",
		"email.otp.subject.reset":    "Studizen password reset code",
		"email.otp.body.register":    "Hi %s,\n\nYour verification code is: %s\n\nThe code expires in %d minutes. Do not share it with anyone.",
		"email.otp.body.reset":       "Hi %s,\n\nYour password reset code is: %s\n\nThe code expires in %d minutes. If you did not request it, ignore this email.",
		"email.task_reminder.subject": "Task due soon: %s",
		"email.task_reminder.body":    "Hi %s,\n\nYour task \"%s\" is due at %s. Keep it up!",
	},
	LocaleID: {
		"error.bad_request":                  "Permintaan tidak valid",
		"error.unauthorized":                 "Silakan masuk terlebih dahulu",
		"error.forbidden":                    "Anda tidak memiliki izin untuk aksi ini",
		"error.not_found":                    "Data tidak ditemukan",
		"error.internal":                     "Terjadi kesalahan, silakan coba lagi",
		"error.rate_limited":                 "Terlalu banyak permintaan, coba lagi dalam %d detik",
		"error.rate_limit_unavailable":       "Pembatas permintaan tidak tersedia, coba lagi",
		"error.login_too_many":               "Terlalu banyak percobaan masuk, coba lagi dalam %d detik",
		"error.send_code_too_many":           "Terlalu sering meminta kode, coba lagi dalam %d detik",
		"error.email_invalid":                "Alamat email tidak valid",
		"error.email_exists":                 "Email ini sudah terdaftar",
		"error.user_not_found":               "Akun tidak ditemukan",
		"error.login_invalid":                "Email atau kata sandi salah",
		"error.email_not_verified":           "Silakan verifikasi email Anda terlebih dahulu",
		"error.user_disabled":                "Akun ini telah dinonaktifkan",
		"error.password_weak":                "Kata sandi tidak memenuhi ketentuan",
		"error.password_min_length":          "Kata sandi minimal %d karakter",
		"error.password_require_upper":       "Kata sandi harus memuat huruf besar",
		"error.password_require_lower":       "Kata sandi harus memuat huruf kecil",
		"error.password_require_number":      "Kata sandi harus memuat angka",
		"error.password_require_special":     "Kata sandi harus memuat karakter khusus",
		"error.password_incorrect":           "Kata sandi saat ini salah",
		"error.profile_empty":                "Tidak ada yang diperbarui",
		"error.token_invalid":                "Kredensial tidak valid, silakan masuk kembali",
		"error.token_revoked":                "Sesi berakhir, silakan masuk kembali",
		"error.auth_header_missing":          "Header otorisasi tidak ada",
		"error.auth_header_invalid":          "Header otorisasi tidak sesuai format",
		"error.jwt_secret_missing":           "Autentikasi server belum dikonfigurasi",
		"error.otp_invalid":                  "Kode verifikasi salah",
		"error.otp_expired":                  "Kode verifikasi kedaluwarsa, minta kode baru",
		"error.otp_not_found":                "Kode verifikasi salah",
		"error.otp_attempts_exceeded":        "Terlalu banyak percobaan, minta kode baru",
		"error.otp_too_frequent":             "Tunggu sebentar sebelum meminta kode lagi",
		"error.email_service_not_configured": "Layanan email belum dikonfigurasi",
		"error.send_code_failed":             "Gagal mengirim kode verifikasi",
		"error.verify_failed":                "Verifikasi gagal, silakan coba lagi",
		"error.register_failed":              "Pendaftaran gagal, silakan coba lagi",
		"error.already_verified":             "Akun ini sudah terverifikasi",
		"error.captcha_required":             "Captcha wajib diisi",
		"error.captcha_invalid":              "Captcha salah",
		"error.captcha_config_invalid":       "Konfigurasi captcha tidak benar",
		"error.captcha_verify_failed":        "Verifikasi captcha gagal",
		"error.captcha_unavailable":          "Captcha tidak tersedia",
		"error.captcha_generate_failed":      "Gagal membuat captcha",
		"error.schedule_not_found":           "Jadwal kuliah tidak ditemukan",
		"error.schedule_name_required":       "Nama mata kuliah wajib diisi",
		"error.schedule_conflict":            "Jadwal ini bertabrakan dengan jadwal lain",
		"error.schedule_time_invalid":        "Rentang waktu jadwal tidak valid",
		"error.schedule_fetch_failed":        "Gagal memuat jadwal kuliah",
		"error.schedule_save_failed":         "Gagal menyimpan jadwal kuliah",
		"error.task_not_found":               "Tugas tidak ditemukan",
		"error.task_title_required":          "Judul tugas wajib diisi",
		"error.task_limit_reached":           "Batas tugas paket gratis tercapai, tingkatkan ke premium",
		"error.task_status_invalid":          "Status tugas tidak valid",
		"error.task_priority_invalid":        "Prioritas tugas tidak valid",
		"error.task_fetch_failed":            "Gagal memuat tugas",
		"error.task_save_failed":             "Gagal menyimpan tugas",
		"error.plan_not_found":               "Paket langganan tidak ditemukan",
		"error.plan_disabled":                "Paket langganan tidak tersedia",
		"error.premium_required":             "Fitur ini membutuhkan langganan premium",
		"error.subscription_not_found":       "Langganan tidak ditemukan",
		"error.trial_already_used":           "Masa percobaan gratis sudah digunakan",
		"error.subscribe_failed":             "Gagal mengaktifkan langganan",
		"error.setting_fetch_failed":         "Gagal memuat pengaturan",
		"error.setting_save_failed":          "Gagal menyimpan pengaturan",
		"error.user_fetch_failed":            "Gagal memuat pengguna",
		"error.user_update_failed":           "Gagal memperbarui pengguna",
		"error.user_delete_failed":           "Gagal menghapus pengguna",
		"error.role_invalid":                 "Peran tidak valid",
		"error.user_id_invalid":              "ID pengguna tidak valid",
		"error.user_id_type_invalid":         "Tipe ID pengguna tidak sesuai",
		"error.user_status_invalid":          "Status pengguna tidak valid",
		"error.admin_login_invalid":          "Kredensial admin tidak valid",
		"error.login_failed":                 "Gagal masuk, silakan coba lagi",
		"error.admin_fetch_failed":           "Gagal memuat akun admin",
		"error.admin_not_found":              "Akun admin tidak ditemukan",
		"error.admin_exists":                 "Nama pengguna admin sudah digunakan",
		"error.admin_protected":              "Super admin bawaan tidak dapat diubah dengan cara ini",
		"error.admin_delete_self_forbidden":  "Anda tidak dapat menghapus akun admin sendiri",
		"error.admin_delete_last_forbidden":  "Akun admin terakhir tidak dapat dihapus",
		"error.admin_id_invalid":             "ID admin tidak valid",
		"error.admin_id_type_invalid":        "Tipe ID admin tidak sesuai",
		"error.save_failed":                  "Gagal menyimpan perubahan",
		"error.plan_slug_exists":             "Slug paket sudah digunakan",
		"error.plan_save_failed":             "Gagal menyimpan paket langganan",

		"email.otp.subject.register": "Kode pendaftaran Studizen",
		"email.otp.subject.reset":    "Kode atur ulang kata sandi Studizen",
		"email.otp.body.register":    "Hai %s,\n\nKode verifikasi Anda: %s\n\nKode berlaku selama %d menit. Jangan bagikan kepada siapa pun.",
		"email.otp.body.reset":       "Hai %s,\n\nKode atur ulang kata sandi Anda: %s\n\nKode berlaku selama %d menit. Abaikan email ini jika Anda tidak memintanya.",
		"email.task_reminder.subject": "Tugas segera jatuh tempo: %s",
		"email.task_reminder.body":    "Hai %s,\n\nTugas \"%s\" jatuh tempo pada %s. Semangat!",
	},
	LocaleZH: {
		"error.bad_request":                  "请求参数无效",
		"error.unauthorized":                 "请先登录",
		"error.forbidden":                    "没有执行该操作的权限",
		"error.not_found":                    "记录不存在",
		"error.internal":                     "服务异常，请稍后重试",
		"error.rate_limited":                 "请求过于频繁，请 %d 秒后重试",
		"error.rate_limit_unavailable":       "限流服务不可用，请稍后重试",
		"error.login_too_many":               "登录尝试过多，请 %d 秒后重试",
		"error.send_code_too_many":           "验证码请求过多，请 %d 秒后重试",
		"error.email_invalid":                "邮箱地址无效",
		"error.email_exists":                 "该邮箱已注册",
		"error.user_not_found":               "账号不存在",
		"error.login_invalid":                "邮箱或密码错误",
		"error.email_not_verified":           "请先完成邮箱验证",
		"error.user_disabled":                "该账号已被禁用",
		"error.password_weak":                "密码不符合安全策略",
		"error.password_min_length":          "密码长度不能少于 %d 位",
		"error.password_require_upper":       "密码必须包含大写字母",
		"error.password_require_lower":       "密码必须包含小写字母",
		"error.password_require_number":      "密码必须包含数字",
		"error.password_require_special":     "密码必须包含特殊字符",
		"error.password_incorrect":           "当前密码不正确",
		"error.profile_empty":                "没有可更新的内容",
		"error.token_invalid":                "凭证无效，请重新登录",
		"error.token_revoked":                "会话已失效，请重新登录",
		"error.auth_header_missing":          "缺少认证头",
		"error.auth_header_invalid":          "认证头格式错误",
		"error.jwt_secret_missing":           "服务端认证未配置",
		"error.otp_invalid":                  "验证码错误",
		"error.otp_expired":                  "验证码已过期，请重新获取",
		"error.otp_not_found":                "验证码错误",
		"error.otp_attempts_exceeded":        "尝试次数过多，请重新获取验证码",
		"error.otp_too_frequent":             "请求过于频繁，请稍后再获取验证码",
		"error.email_service_not_configured": "邮件服务未配置",
		"error.send_code_failed":             "验证码发送失败",
		"error.verify_failed":                "验证失败，请重试",
		"error.register_failed":              "注册失败，请重试",
		"error.already_verified":             "该账号已完成验证",
		"error.captcha_required":             "请完成图形验证码",
		"error.captcha_invalid":              "图形验证码错误",
		"error.captcha_config_invalid":       "图形验证码配置无效",
		"error.captcha_verify_failed":        "图形验证码校验失败",
		"error.captcha_unavailable":          "图形验证码不可用",
		"error.captcha_generate_failed":      "图形验证码生成失败",
		"error.schedule_not_found":           "课程不存在",
		"error.schedule_name_required":       "课程名称不能为空",
		"error.schedule_conflict":            "该课程与已有课程时间冲突",
		"error.schedule_time_invalid":        "课程时间区间无效",
		"error.schedule_fetch_failed":        "课程表加载失败",
		"error.schedule_save_failed":         "课程保存失败",
		"error.task_not_found":               "任务不存在",
		"error.task_title_required":          "任务标题不能为空",
		"error.task_limit_reached":           "免费版任务数已达上限，请升级会员",
		"error.task_status_invalid":          "任务状态无效",
		"error.task_priority_invalid":        "任务优先级无效",
		"error.task_fetch_failed":            "任务加载失败",
		"error.task_save_failed":             "任务保存失败",
		"error.plan_not_found":               "订阅套餐不存在",
		"error.plan_disabled":                "订阅套餐不可用",
		"error.premium_required":             "该功能需要开通会员",
		"error.subscription_not_found":       "订阅记录不存在",
		"error.trial_already_used":           "免费试用已使用过",
		"error.subscribe_failed":             "订阅开通失败",
		"error.setting_fetch_failed":         "设置加载失败",
		"error.setting_save_failed":          "设置保存失败",
		"error.user_fetch_failed":            "用户加载失败",
		"error.user_update_failed":           "用户更新失败",
		"error.user_delete_failed":           "用户删除失败",
		"error.role_invalid":                 "角色无效",
		"error.user_id_invalid":              "用户 ID 无效",
		"error.user_id_type_invalid":         "用户 ID 类型错误",
		"error.user_status_invalid":          "用户状态无效",
		"error.admin_login_invalid":          "管理员账号或密码错误",
		"error.login_failed":                 "登录失败，请重试",
		"error.admin_fetch_failed":           "管理员信息获取失败",
		"error.admin_not_found":              "管理员不存在",
		"error.admin_exists":                 "管理员用户名已存在",
		"error.admin_protected":              "内置超级管理员不允许该操作",
		"error.admin_delete_self_forbidden":  "不能删除当前登录的管理员账号",
		"error.admin_delete_last_forbidden":  "最后一个管理员账号不能删除",
		"error.admin_id_invalid":             "管理员 ID 无效",
		"error.admin_id_type_invalid":        "管理员 ID 类型错误",
		"error.save_failed":                  "保存失败",
		"error.plan_slug_exists":             "套餐标识已存在",
		"error.plan_save_failed":             "套餐保存失败",

		"email.otp.subject.register": "Studizen 注册验证码",
		"email.otp.subject.reset":    "Studizen 密码重置验证码",
		"email.otp.body.register":    "%s，您好：\n\n您的验证码是：%s\n\n验证码 %d 分钟内有效，请勿泄露。",
		"email.otp.body.reset":       "%s，您好：\n\n您的密码重置验证码是：%s\n\n验证码 %d 分钟内有效，若非本人操作请忽略本邮件。",
		"email.task_reminder.subject": "任务即将截止：%s",
		"email.task_reminder.body":    "%s，您好：\n\n您的任务「%s」将于 %s 截止，加油！",
	},
}
