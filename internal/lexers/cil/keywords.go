package cil

// DefaultKeywords are the compiled-in word lists, one per slot.
var DefaultKeywords = []string{
	".assembly .class .corflags .custom .data .entrypoint .event .field .file " +
		".imagebase .line .locals .maxstack .method .module .mresource .namespace " +
		".override .pack .param .permission .permissionset .property .size " +
		".stackreserve .subsystem .try .ver .vtfixup .vtentry extern",
	"abstract ansi auto autochar beforefieldinit bool char class cil default " +
		"explicit extends family famandassem famorassem final float32 float64 " +
		"hidebysig implements initonly instance int16 int32 int64 int8 interface " +
		"internalcall literal managed native newslot nested object private public " +
		"rtspecialname runtime sealed sequential serializable specialname static " +
		"string unicode uint16 uint32 uint64 uint8 valuetype virtual void",
	"add add.ovf and beq beq.s bge bge.s bgt bgt.s ble ble.s blt blt.s bne.un " +
		"bne.un.s box br br.s break brfalse brfalse.s brtrue brtrue.s call calli " +
		"callvirt castclass ceq cgt clt conv.i conv.i4 conv.i8 conv.r4 conv.r8 " +
		"cpblk div dup endfinally initobj isinst jmp ldarg ldarg.0 ldarg.1 ldarg.2 " +
		"ldarg.3 ldarg.s ldc.i4 ldc.i4.0 ldc.i4.1 ldc.i4.s ldc.i8 ldc.r4 ldc.r8 " +
		"ldelem ldelema ldfld ldflda ldftn ldlen ldloc ldloc.0 ldloc.1 ldloc.2 " +
		"ldloc.3 ldloc.s ldnull ldobj ldsfld ldstr ldtoken leave leave.s localloc " +
		"mul neg newarr newobj nop not or pop rem ret rethrow shl shr sizeof starg " +
		"stelem stfld stloc stloc.0 stloc.1 stloc.2 stloc.3 stloc.s stobj stsfld " +
		"sub switch tail. throw unbox unbox.any volatile. xor",
}
