package provisioning

import "github.com/nuqta-dev/tenadmin/internal/i18n"

// Field-scoped validation messages. These never reach the network; they block
// the stage transition locally.
var (
	msgRequired = i18n.Message{
		EN: "This field is required",
		AR: "هذا الحقل مطلوب",
	}
	msgInvalidEmail = i18n.Message{
		EN: "Enter a valid email address",
		AR: "أدخل بريدًا إلكترونيًا صالحًا",
	}
	msgPasswordTooShort = i18n.Message{
		EN: "Password must be at least 6 characters",
		AR: "يجب أن تكون كلمة المرور 6 أحرف على الأقل",
	}
	msgInvalidDate = i18n.Message{
		EN: "Enter a valid date (YYYY-MM-DD)",
		AR: "أدخل تاريخًا صالحًا (YYYY-MM-DD)",
	}
	msgEndBeforeStart = i18n.Message{
		EN: "End date must be after the start date",
		AR: "يجب أن يكون تاريخ الانتهاء بعد تاريخ البدء",
	}
	msgInvalidPrice = i18n.Message{
		EN: "Subscription price must be a positive number",
		AR: "يجب أن يكون سعر الاشتراك رقمًا موجبًا",
	}
	msgOtherActivityRequired = i18n.Message{
		EN: "Describe the activity type",
		AR: "صف نوع النشاط",
	}
)

// Stage submission failures. The backend message is appended when available.
var (
	msgTenantCreateFailed = i18n.Message{
		EN: "Could not create the tenant",
		AR: "تعذر إنشاء المستأجر",
	}
	msgTenantUpdateFailed = i18n.Message{
		EN: "Could not update the tenant",
		AR: "تعذر تحديث المستأجر",
	}
	msgClientCreateFailed = i18n.Message{
		EN: "Could not create the client contact",
		AR: "تعذر إنشاء جهة اتصال العميل",
	}
	msgManagerCreateFailed = i18n.Message{
		EN: "Could not create the manager account",
		AR: "تعذر إنشاء حساب المدير",
	}
	msgManagerUpdateFailed = i18n.Message{
		EN: "Could not update the manager account",
		AR: "تعذر تحديث حساب المدير",
	}
	msgWorkflowComplete = i18n.Message{
		EN: "Tenant provisioning completed",
		AR: "اكتمل تجهيز المستأجر",
	}
	msgTenantSaved = i18n.Message{
		EN: "Tenant changes saved",
		AR: "تم حفظ تغييرات المستأجر",
	}
)
