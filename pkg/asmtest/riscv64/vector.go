// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package riscv64

import (
	"github.com/asmgen/asmgen/pkg/asmtest/iset"
)

var vamoOps = []string{
	"vamoswap", "vamoadd", "vamoxor", "vamoand", "vamoor",
	"vamomin", "vamomax", "vamominu", "vamomaxu",
}

// Operands of vector AMOs are base, vs2, vd. When the old value is not written back
// the reference assembler wants x0 in the destination slot.
func vectorAMO(b *builder) {
	b.group("VectorAMO", iset.FamilyVectorAMO)
	for _, width := range []string{"ei8_v", "ei16_v", "ei32_v"} {
		for _, op := range vamoOps {
			b.add(op+width, "xvv", ref("2,(0),1,2"), cand("2,0,1,true"), maskable)
		}
		for _, op := range vamoOps {
			b.add(op+width, "xvv", ref("x0,(0),1,2"), cand("2,0,1,false"), maskable)
		}
	}
}

func vector(b *builder) {
	vectorAMO(b)
	b.group("VectorTwoReg", iset.FamilyVector).
		each("vv", []string{
			"vzext_vf2", "vzext_vf4", "vzext_vf8",
			"vsext_vf2", "vsext_vf4", "vsext_vf8",
		}, maskable).
		each("xv", []string{"vpopc_m", "vfirst_m"}, maskable).
		each("vv", []string{
			"vmsbf_m", "vmsif_m", "vmsof_m", "viota_m",
			"vfcvt_xu_f_v", "vfcvt_x_f_v", "vfcvt_f_xu_v", "vfcvt_f_x_v",
			"vfcvt_rtz_xu_f_v", "vfcvt_rtz_x_f_v",
			"vfwcvt_xu_f_v", "vfwcvt_x_f_v", "vfwcvt_f_xu_v", "vfwcvt_f_x_v",
			"vfwcvt_f_f_v", "vfwcvt_rtz_xu_f_v", "vfwcvt_rtz_x_f_v",
			"vfncvt_xu_f_w", "vfncvt_x_f_w", "vfncvt_f_xu_w", "vfncvt_f_x_w",
			"vfncvt_f_f_w", "vfncvt_rod_f_f_w", "vfncvt_rtz_xu_f_w", "vfncvt_rtz_x_f_w",
			"vfsqrt_v", "vfclass_v",
		}, maskable)
	b.group("VectorMove", iset.FamilyVector).
		each("vv", []string{"vmv1r_v", "vmv2r_v", "vmv4r_v", "vmv8r_v"}).
		add("vfmv_f_s", "fv").add("vmv_x_s", "xv").
		add("vfmv_s_f", "vf").add("vmv_s_x", "vx").
		add("vfmv_v_f", "vf").add("vmv_v_x", "vx").
		add("vmv_v_v", "vv").
		add("vmv_v_i", "vk").
		add("vid_v", "v")
	b.group("VectorUnitStride", iset.FamilyVectorMem).
		each("vx", []string{"vl1r_v", "vs1r_v"}, ref("0,(1)")).
		each("vx", []string{
			"vle8_v", "vle16_v", "vle32_v", "vle64_v",
			"vse8_v", "vse16_v", "vse32_v", "vse64_v",
			"vle8ff_v", "vle16ff_v", "vle32ff_v", "vle64ff_v",
		}, ref("0,(1)"), maskable)
	b.group("VectorStrided", iset.FamilyVectorMem).
		each("vxx", []string{
			"vlse8_v", "vlse16_v", "vlse32_v", "vlse64_v",
			"vsse8_v", "vsse16_v", "vsse32_v", "vsse64_v",
		}, ref("0,(1),2"), maskable)
	// Merge and carry forms always take v0 as an explicit operand and are never masked.
	b.group("VectorMerge", iset.FamilyVector).
		add("vfmerge_vfm", "vfv", both("0,2,1,v0")).
		add("vmerge_vxm", "vxv", both("0,2,1,v0")).
		add("vmerge_vvm", "vvv", both("0,2,1,v0")).
		add("vsbc_vxm", "vxv", both("0,2,1,v0")).
		add("vsbc_vvm", "vvv", both("0,2,1,v0")).
		add("vadc_vxm", "vxv", both("0,2,1,v0")).
		add("vadc_vvm", "vvv", both("0,2,1,v0")).
		add("vmadc_vxm", "vxv", both("0,2,1,v0")).
		add("vmadc_vvm", "vvv", both("0,2,1,v0")).
		add("vmsbc_vxm", "vxv", both("0,2,1,v0")).
		add("vmsbc_vvm", "vvv", both("0,2,1,v0"))
	vectorMultiplyAdd(b)
	b.group("VectorReverseSub", iset.FamilyVector).
		add("vrsub_vx", "vxv", ref("0,2,1"), cand("0,1,2"), maskable)
	vectorArith(b)
	b.group("VectorImmMerge", iset.FamilyVector).
		each("vvk", []string{"vmadc_vim", "vadc_vim", "vmerge_vim"}, both("0,1,2,v0"))
	b.group("VectorImm", iset.FamilyVector).
		each("vvk", []string{
			"vsadd_vi", "vsaddu_vi", "vmsgt_vi", "vmsgtu_vi",
			"vmsle_vi", "vmsleu_vi", "vmsne_vi", "vmseq_vi",
			"vxor_vi", "vor_vi", "vand_vi", "vadd_vi",
		}, maskable)
	b.group("VectorReverseSubImm", iset.FamilyVector).
		add("vrsub_vi", "vvk", ref("0,1,2"), cand("0,2,1"), maskable)
	b.group("VectorUnsignedImm", iset.FamilyVector).
		each("vvh", []string{
			"vrgather_vi", "vslidedown_vi", "vslideup_vi", "vnclip_wi",
			"vnclipu_wi", "vssra_vi", "vssrl_vi", "vnsra_wi",
			"vnsrl_wi", "vsra_vi", "vsrl_vi", "vsll_vi",
		}, maskable)
	b.group("VectorConfig", iset.FamilyVectorConfig).
		add("vsetvl", "xxx")
}

// binary adds three-operand vector ops. The scalar source kind follows from the
// last letter of the name: _vf/_wf take a float register, _vx/_wx a general one.
func (b *builder) binary(names []string, opts ...opt) *builder {
	for _, name := range names {
		mode := "vvv"
		switch name[len(name)-1] {
		case 'f':
			mode = "vfv"
		case 'x':
			mode = "vxv"
		}
		b.add(name, mode, opts...)
	}
	return b
}

func vectorMultiplyAdd(b *builder) {
	b.group("VectorMultiplyAdd", iset.FamilyVector).
		binary([]string{
			"vfwnmsac_vf", "vfwnmsac_vv", "vfwmsac_vf", "vfwmsac_vv",
			"vfwnmacc_vf", "vfwnmacc_vv", "vfwmacc_vf", "vfwmacc_vv",
			"vfnmsub_vf", "vfnmsub_vv", "vfmsub_vf", "vfmsub_vv",
			"vfnmadd_vf", "vfnmadd_vv", "vfmadd_vf", "vfmadd_vv",
			"vfnmsac_vf", "vfnmsac_vv", "vfmsac_vf", "vfmsac_vv",
			"vfmacc_vf", "vfmacc_vv", "vfnmacc_vf", "vfnmacc_vv",
			"vwmaccsu_vx", "vwmaccsu_vv", "vwmacc_vx", "vwmacc_vv",
			"vwmaccu_vx", "vwmaccu_vv", "vwmaccus_vx",
			"vnmsub_vx", "vnmsub_vv", "vmadd_vx", "vmadd_vv",
			"vnmsac_vx", "vnmsac_vv", "vmacc_vx", "vmacc_vv",
		}, maskable)
}

// vectorArith declares binary vector ops whose source operands are listed as vs2, vs1 by
// both renderings, the reverse of the declared mode order.
func vectorArith(b *builder) {
	d21 := both("0,2,1")
	b.group("VectorArith", iset.FamilyVector).
		binary([]string{
			"vrgather_vx", "vrgather_vv",
			"vslide1down_vx", "vslidedown_vx", "vslide1up_vx", "vslideup_vx",
			"vfwredsum_vs", "vfwredosum_vs", "vfredsum_vs", "vfredosum_vs",
			"vfredmin_vs", "vfredmax_vs",
			"vredsum_vs", "vredand_vs", "vredor_vs", "vredxor_vs",
			"vredminu_vs", "vredmin_vs", "vredmaxu_vs", "vredmax_vs",
			"vwredsumu_vs", "vwredsum_vs",
			"vmfge_vf", "vmfgt_vf", "vmfle_vf", "vmfle_vv",
			"vmflt_vf", "vmflt_vv", "vmfne_vf", "vmfne_vv",
			"vmfeq_vf", "vmfeq_vv",
			"vfslide1down_vf", "vfslide1up_vf",
			"vfsgnjx_vf", "vfsgnjx_vv", "vfsgnjn_vf", "vfsgnjn_vv",
			"vfsgnj_vf", "vfsgnj_vv", "vfmax_vf", "vfmax_vv",
			"vfmin_vf", "vfmin_vv", "vfwmul_vf", "vfwmul_vv",
			"vfdiv_vf", "vfdiv_vv", "vfmul_vf", "vfmul_vv",
			"vfrdiv_vf",
			"vfwsub_wf", "vfwsub_wv", "vfwsub_vf", "vfwsub_vv",
			"vfwadd_wf", "vfwadd_wv", "vfwadd_vf", "vfwadd_vv",
			"vfsub_vf", "vfsub_vv", "vfadd_vf", "vfadd_vv",
			"vfrsub_vf",
			"vnclip_wx", "vnclip_wv", "vnclipu_wx", "vnclipu_wv",
			"vssra_vx", "vssra_vv", "vssrl_vx", "vssrl_vv",
			"vsmul_vx", "vsmul_vv",
			"vasubu_vx", "vasubu_vv", "vasub_vx", "vasub_vv",
			"vaaddu_vx", "vaaddu_vv", "vaadd_vx", "vaadd_vv",
			"vssub_vx", "vssub_vv", "vssubu_vx", "vssubu_vv",
			"vsadd_vx", "vsadd_vv", "vsaddu_vx", "vsaddu_vv",
			"vwmul_vx", "vwmul_vv", "vwmulsu_vx", "vwmulsu_vv",
			"vwmulu_vx", "vwmulu_vv",
			"vrem_vx", "vrem_vv", "vremu_vx", "vremu_vv",
			"vdiv_vx", "vdiv_vv", "vdivu_vx", "vdivu_vv",
			"vmulhsu_vx", "vmulhsu_vv", "vmulhu_vx", "vmulhu_vv",
			"vmulh_vx", "vmulh_vv", "vmul_vx", "vmul_vv",
			"vmax_vx", "vmax_vv", "vmaxu_vx", "vmaxu_vv",
			"vmin_vx", "vmin_vv", "vminu_vx", "vminu_vv",
			"vmsgt_vx", "vmsgtu_vx",
			"vmsle_vx", "vmsle_vv", "vmsleu_vx", "vmsleu_vv",
			"vmslt_vx", "vmslt_vv", "vmsltu_vx", "vmsltu_vv",
			"vmsne_vx", "vmsne_vv", "vmseq_vx", "vmseq_vv",
			"vnsra_wx", "vnsra_wv", "vnsrl_wx", "vnsrl_wv",
			"vsra_vx", "vsra_vv", "vsrl_vx", "vsrl_vv",
			"vsll_vx", "vsll_vv",
			"vxor_vx", "vxor_vv", "vor_vx", "vor_vv", "vand_vx", "vand_vv",
			"vwsub_wx", "vwsub_wv", "vwsubu_wx", "vwsubu_wv",
			"vwadd_wx", "vwadd_wv", "vwaddu_wx", "vwaddu_wv",
			"vwsub_vx", "vwsub_vv", "vwsubu_vx", "vwsubu_vv",
			"vwadd_vx", "vwadd_vv", "vwaddu_vx", "vwaddu_vv",
			"vsub_vx", "vsub_vv", "vadd_vx", "vadd_vv",
		}, d21, maskable).
		// Mask-register logic and compress only exist unmasked.
		each("vvv", []string{
			"vcompress_vm", "vmxnor_mm", "vmornot_mm", "vmnor_mm",
			"vmor_mm", "vmxor_mm", "vmandnot_mm", "vmnand_mm", "vmand_mm",
		}, d21)
}
